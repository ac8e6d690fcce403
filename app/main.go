package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lysyi3m/feedgrab/app/cfg"
	"github.com/lysyi3m/feedgrab/app/database"
	"github.com/lysyi3m/feedgrab/app/download"
	"github.com/lysyi3m/feedgrab/app/feed"
	"github.com/lysyi3m/feedgrab/app/tasks"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	appCfg, err := cfg.Load(args)
	if err != nil {
		var cfgErr *cfg.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(stdout, cfgErr.Message)
		} else {
			fmt.Fprintf(stdout, "Error: %v\n", err)
		}
		return tasks.ExitFailure
	}
	if appCfg == nil {
		// Help was shown
		return tasks.ExitOK
	}

	setupLogging(appCfg.Debug)

	slog.Debug("Configuration loaded",
		"version", appCfg.Version,
		"feed", appCfg.FeedURL,
		"destination", appCfg.Destination,
		"block_size", appCfg.BlockSize,
		"history", appCfg.HistoryDB)

	// Download history is optional; a nil repository disables it
	var history tasks.DownloadHistory
	if appCfg.HistoryDB != "" {
		db, err := database.NewConnection(appCfg.HistoryDB)
		if err != nil {
			slog.Error("Failed to open download history", "path", appCfg.HistoryDB, "error", err)
			fmt.Fprintf(stdout, "Error: %v\n", err)
			return tasks.ExitFailure
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to migrate download history", "path", appCfg.HistoryDB, "error", err)
			fmt.Fprintf(stdout, "Error: %v\n", err)
			return tasks.ExitFailure
		}
		repo := database.NewHistoryRepository(db)
		recorded, err := repo.Count()
		if err != nil {
			slog.Error("Failed to read download history", "path", appCfg.HistoryDB, "error", err)
			fmt.Fprintf(stdout, "Error: %v\n", err)
			return tasks.ExitFailure
		}
		slog.Debug("Download history ready", "path", appCfg.HistoryDB, "version", version, "dirty", dirty, "recorded", recorded)

		history = repo
	} else if appCfg.Skip {
		slog.Warn("--skip without --history only suppresses downloading; nothing is recorded")
	}

	reporter := tasks.NewReporter(stdout)
	reporter.Header(appCfg.FeedURL, appCfg.Destination, appCfg.BlockSize)

	// Neither client carries a timeout: the feed request is bounded by
	// FeedTimeout and downloads by the stall watchdog.
	source := feed.NewSource(&http.Client{}, feed.NewParser(), appCfg.UserAgent, appCfg.FeedTimeout)
	downloader := download.NewDownloader(&http.Client{}, appCfg.Destination, appCfg.BlockSize, appCfg.UserAgent, appCfg.StallTimeout)

	task := tasks.NewDownloadFeedTask(appCfg.FeedURL, source, downloader, history, reporter, appCfg.Skip)
	slog.Info("Starting task", "type", task.GetType(), "id", task.GetID(), "feed", appCfg.FeedURL)

	return tasks.Run(ctx, task)
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
