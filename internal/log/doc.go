// Package log provides a secure slog handler for dialdex.
//
// The crawl session carries a directory session cookie and the reputation
// client carries a bearer token; both routinely pass through code that
// logs request metadata. SecureHandler masks attributes whose keys or
// values look like those secrets before the record reaches the underlying
// handler.
package log
