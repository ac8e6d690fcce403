package cfg

import "time"

const (
	DefaultBlockSize = 1048576
	DefaultUserAgent = "feedgrab/1.0"
)

type Cfg struct {
	// Feed configuration
	FeedURL     string
	BlockSize   int
	Destination string

	// Download history
	HistoryDB string
	Skip      bool

	// HTTP behaviour
	UserAgent    string
	FeedTimeout  time.Duration
	StallTimeout time.Duration

	// Application metadata
	Debug   bool
	Version string
}

// fileCfg mirrors the optional YAML settings file. Zero values mean "unset".
type fileCfg struct {
	URL          string `yaml:"url"`
	BlockSize    int    `yaml:"block_size"`
	Destination  string `yaml:"destination"`
	History      string `yaml:"history"`
	UserAgent    string `yaml:"user_agent"`
	Timeout      int    `yaml:"timeout"`       // seconds
	StallTimeout int    `yaml:"stall_timeout"` // seconds
}
