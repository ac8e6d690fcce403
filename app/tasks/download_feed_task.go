package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/feedgrab/app/database"
	"github.com/lysyi3m/feedgrab/app/download"
	"github.com/lysyi3m/feedgrab/app/feed"
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

type Summary struct {
	Total       int
	Downloaded  int
	Skipped     int // target file already present
	Recorded    int // already in download history
	Marked      int
	Failed      int
	NoEnclosure int
	Interrupted bool
}

// DownloadFeedTask fetches one feed and downloads its enclosures one after
// another. History is optional; a nil history means filesystem presence is
// the only "already downloaded" check.
type DownloadFeedTask struct {
	Task
	source     ItemSource
	downloader ItemDownloader
	history    DownloadHistory
	reporter   *Reporter
	markOnly   bool
}

func NewDownloadFeedTask(feedURL string, source ItemSource, downloader ItemDownloader, history DownloadHistory, reporter *Reporter, markOnly bool) *DownloadFeedTask {
	return &DownloadFeedTask{
		Task:       NewTask(TaskTypeDownloadFeed, feedURL),
		source:     source,
		downloader: downloader,
		history:    history,
		reporter:   reporter,
		markOnly:   markOnly,
	}
}

// Execute returns an error only for conditions that end the whole run: an
// unusable destination, a feed that cannot be fetched or parsed, or a broken
// history database. Per-item download failures are reported and counted.
func (t *DownloadFeedTask) Execute(ctx context.Context) (Summary, error) {
	var summary Summary

	select {
	case <-ctx.Done():
		return summary, ctx.Err()
	default:
	}

	t.Start()

	if err := t.downloader.EnsureDir(); err != nil {
		return summary, err
	}

	items, err := t.source.FetchItems(ctx, t.FeedURL)
	if err != nil {
		return summary, err
	}
	summary.Total = len(items)

	for _, item := range items {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		if !item.HasEnclosure() {
			slog.Debug("Item has no enclosure, skipping", "title", item.Title)
			summary.NoEnclosure++
			continue
		}

		path := t.downloader.TargetPath(item)

		if t.history != nil {
			recorded, err := t.history.IsRecorded(path)
			if err != nil {
				return summary, err
			}
			if recorded {
				slog.Debug("Item already in download history", "path", path)
				summary.Recorded++
				continue
			}
		}

		t.reporter.Item(item, path)

		if t.markOnly {
			if err := t.record(item, path, 0); err != nil {
				return summary, err
			}
			t.reporter.Marked(path, t.history != nil)
			summary.Marked++
			continue
		}

		result, err := t.downloader.Run(ctx, item, t.reporter.Progress)
		if err != nil {
			t.reporter.Failure(result, err)
			if ctx.Err() != nil {
				summary.Interrupted = true
				break
			}
			slog.Error("Download failed", "path", path, "url", item.EnclosureURL, "bytes_written", result.BytesWritten, "error", err)
			summary.Failed++
			continue
		}

		t.reporter.Result(result)

		switch result.Status {
		case download.StatusSkipped:
			summary.Skipped++
		case download.StatusCompleted:
			summary.Downloaded++
			if err := t.record(item, path, result.BytesWritten); err != nil {
				return summary, err
			}
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"id", t.GetID(),
		"duration", t.GetDuration(),
		"total", summary.Total,
		"downloaded", summary.Downloaded,
		"skipped", summary.Skipped,
		"recorded", summary.Recorded,
		"marked", summary.Marked,
		"failed", summary.Failed,
		"no_enclosure", summary.NoEnclosure,
		"interrupted", summary.Interrupted)

	return summary, nil
}

func (t *DownloadFeedTask) record(item feed.Item, path string, bytesWritten int64) error {
	if t.history == nil {
		return nil
	}

	err := t.history.Record(database.Download{
		Path:         path,
		GUID:         item.GUID,
		Title:        item.Title,
		EnclosureURL: item.EnclosureURL,
		BytesWritten: bytesWritten,
		RunID:        t.GetID(),
	})
	if err != nil {
		return fmt.Errorf("failed to update download history: %w", err)
	}
	return nil
}

// Run executes task and maps the outcome to a process exit status.
// Interruption is not a failure.
func Run(ctx context.Context, task *DownloadFeedTask) int {
	summary, err := task.Execute(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			task.reporter.Interrupted()
			return ExitOK
		}
		slog.Error("Task failed", "type", task.GetType(), "id", task.GetID(), "error", err)
		task.reporter.Fatal(err)
		return ExitFailure
	}

	if summary.Interrupted {
		task.reporter.Interrupted()
	}
	return ExitOK
}
