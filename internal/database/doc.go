// Package database provides SQLite-based storage for crawl-run history.
//
// Contact records live in the JSON contact store (internal/store); this
// package only keeps an append-only log of refresh attempts so the size
// and health of the remote directory can be tracked across runs.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of
// growing the JSON store because:
//  1. The history is append-only and queried newest-first, which a table
//     with an index does cheaply
//  2. The JSON store format is an external interface and must stay a plain
//     array of contact objects
//  3. CGO-free SQLite keeps cross-compilation trivial
package database
