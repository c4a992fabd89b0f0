package scraper

import "errors"

// Crawl errors. A failed page fetch terminates the crawl early, but the
// records accumulated through the last successful page are still returned
// alongside the error.
var (
	// ErrUnexpectedStatus is returned when the directory endpoint answers
	// a page request with a status other than 200 OK.
	ErrUnexpectedStatus = errors.New("directory returned unexpected status")

	// ErrNoEndpoint is returned when a session is created without a
	// directory endpoint URL.
	ErrNoEndpoint = errors.New("no directory endpoint configured")
)
