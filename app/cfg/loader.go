package cfg

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed configuration
	FeedURL     string `long:"url" env:"FEED_URL" description:"URL of the podcast feed to download (required)"`
	BlockSize   int    `long:"block-size" env:"BLOCK_SIZE" description:"Chunk size in bytes used when streaming downloads (default: 1048576)"`
	Destination string `long:"destination" env:"DESTINATION" description:"Directory downloaded files are written to (default: current directory)"`
	ConfigFile  string `long:"config" env:"CONFIG_FILE" description:"Optional YAML file with settings; flags and environment take precedence"`

	// Download history
	HistoryDB string `long:"history" env:"HISTORY_DB" description:"SQLite file recording downloaded files (optional)"`
	Skip      bool   `short:"s" long:"skip" env:"SKIP" description:"Skip already downloaded files: mark items as downloaded without fetching them"`

	// HTTP behaviour
	UserAgent    string `long:"user-agent" env:"USER_AGENT" description:"User agent string for HTTP requests (default: feedgrab/1.0)"`
	FeedTimeout  int    `long:"timeout" env:"FEED_TIMEOUT" description:"Feed request timeout in seconds, 0 disables"`
	StallTimeout int    `long:"stall-timeout" env:"STALL_TIMEOUT" description:"Abort a download after this many seconds without data, 0 disables"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses args and the environment into a Cfg. It returns nil, nil when
// help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	var file fileCfg
	if raw.ConfigFile != "" {
		loaded, err := loadFile(raw.ConfigFile)
		if err != nil {
			return nil, err
		}
		file = *loaded
	}

	cfg := &Cfg{
		FeedURL:      cmp.Or(raw.FeedURL, file.URL),
		BlockSize:    cmp.Or(raw.BlockSize, file.BlockSize, DefaultBlockSize),
		Destination:  cmp.Or(raw.Destination, file.Destination),
		HistoryDB:    cmp.Or(raw.HistoryDB, file.History),
		Skip:         raw.Skip,
		UserAgent:    cmp.Or(raw.UserAgent, file.UserAgent, DefaultUserAgent),
		FeedTimeout:  seconds(overrides(parser, "timeout", raw.FeedTimeout, file.Timeout)),
		StallTimeout: seconds(overrides(parser, "stall-timeout", raw.StallTimeout, file.StallTimeout)),
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if cfg.Destination == "" {
		cfg.Destination = "."
	}
	dest, err := filepath.Abs(cfg.Destination)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination %s: %w", cfg.Destination, err)
	}
	cfg.Destination = dest

	return cfg, nil
}

func loadFile(path string) (*fileCfg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileCfg
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}

	return &file, nil
}

func validate(cfg *Cfg) error {
	if cfg.FeedURL == "" {
		return &ConfigurationError{
			Setting: "FEED_URL",
			Message: "Set environment string FEED_URL (or pass --url) to the url of your feed",
		}
	}

	nonNegative := map[string]int64{
		"BLOCK_SIZE":    int64(cfg.BlockSize),
		"FEED_TIMEOUT":  int64(cfg.FeedTimeout),
		"STALL_TIMEOUT": int64(cfg.StallTimeout),
	}

	for setting, value := range nonNegative {
		if value < 0 {
			return &ConfigurationError{
				Setting: setting,
				Message: fmt.Sprintf("%s must be non-negative", setting),
			}
		}
	}

	return nil
}

// overrides picks the command line or environment value when either set the
// option, so an explicit 0 still disables what the file configured.
func overrides(parser *flags.Parser, longName string, value, fileValue int) int {
	option := parser.FindOptionByLongName(longName)
	if option == nil {
		return cmp.Or(value, fileValue)
	}
	if option.IsSet() {
		return value
	}
	if _, ok := os.LookupEnv(option.EnvDefaultKey); ok && option.EnvDefaultKey != "" {
		return value
	}
	return fileValue
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
