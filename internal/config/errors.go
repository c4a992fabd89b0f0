package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoEndpoint is returned when no directory endpoint is configured.
	// The endpoint has no default; set it in the config file or with
	// --endpoint.
	ErrNoEndpoint = errors.New("no directory endpoint configured: set 'endpoint' in the config file or use --endpoint")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive. A timeout of zero would reintroduce unbounded requests.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
