package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the crawl behavior the
// directory site tolerates well; the endpoint itself has no default and
// must come from the config file or a flag.
const (
	// DefaultTimeout bounds each individual HTTP request. The directory
	// specifies no timeout of its own, and an unbounded request would
	// hang the whole sequential crawl, so every request gets this cap.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlDelay is the politeness pause between page requests.
	// One second, constant: the directory is small and the delay is a
	// throttle, not a backoff.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultUserAgent is the browser-like User-Agent sent on every
	// request. The directory serves different markup to clients it does
	// not recognize as browsers.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB is far above any real directory page while preventing memory
	// exhaustion from an unexpected response.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultHistoryLimit is how many crawl runs the history command
	// shows by default.
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "dialdex"

	// ContactStoreFile is the file name of the JSON contact store inside
	// the data directory.
	ContactStoreFile = "contacts.json"

	// EnvReputationToken is the environment variable carrying the
	// threat-list API bearer token. An optional .env file in the working
	// directory is honored.
	EnvReputationToken = "DIALDEX_REPUTATION_TOKEN"
)

// Config holds all configuration options for dialdex. It is populated
// from the config file and CLI flags and passed through the application
// via dependency injection rather than global state.
type Config struct {
	// DirectoryEndpoint is the single fixed URL of the contact
	// directory, used for both the initial GET and every postback POST.
	DirectoryEndpoint string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// CrawlDelay is the pause between page requests.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header for directory requests.
	UserAgent string

	// MaxBodySize is the maximum response body size to read.
	MaxBodySize int64

	// StorePath is the location of the JSON contact store.
	StorePath string

	// DBDir is the directory holding the crawl-history database.
	DBDir string

	// ReputationEndpoint is the threat-list API URL.
	ReputationEndpoint string

	// ReputationToken is the threat-list API bearer token.
	ReputationToken string
}

// NewConfig returns a Config populated with defaults. The directory
// endpoint is intentionally left empty; it must be provided explicitly.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		CrawlDelay:  DefaultCrawlDelay,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		StorePath:   filepath.Join(XDGDataDir(), ContactStoreFile),
		DBDir:       XDGDataDir(),
	}
}

// Validate checks the configuration for values that would break a crawl.
// It returns a sentinel error describing the first problem found.
func (c *Config) Validate() error {
	if c.DirectoryEndpoint == "" {
		return ErrNoEndpoint
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}

// XDGDataDir returns the per-user data directory for dialdex, holding the
// contact store and the crawl-history database.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
