package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Run statuses recorded in the history table.
const (
	// StatusOK marks a crawl that fetched every linked page.
	StatusOK = "ok"

	// StatusPartial marks a crawl that failed mid-way but still
	// persisted the records collected up to that point.
	StatusPartial = "partial"

	// StatusFailed marks a crawl that produced nothing.
	StatusFailed = "failed"
)

// HistoryDB provides SQLite-based storage for crawl-run history. The
// contact data itself lives in the JSON contact store; this database only
// records what each refresh did, so drift in the remote directory is
// visible over time.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Append-only run rows are a natural fit for a table
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// read performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "dialdex.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Crawl runs record what each refresh accomplished
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		pages INTEGER NOT NULL,
		collected INTEGER NOT NULL,
		persisted INTEGER NOT NULL,
		status TEXT NOT NULL,
		error_text TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON crawl_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON crawl_runs(status);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// CrawlRun is one refresh attempt as recorded in the history table.
type CrawlRun struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time

	// Pages is the number of directory pages fetched successfully.
	Pages int

	// Collected is the number of records the crawl produced.
	Collected int

	// Persisted reports whether the contact store was rewritten.
	Persisted bool

	// Status is one of StatusOK, StatusPartial, StatusFailed.
	Status string

	// ErrorText carries the crawl error for partial and failed runs.
	ErrorText string
}

// InsertCrawlRun appends a run to the history and returns its id.
func (hdb *HistoryDB) InsertCrawlRun(ctx context.Context, run *CrawlRun) (int64, error) {
	query := `
	INSERT INTO crawl_runs (started_at, finished_at, pages, collected, persisted, status, error_text)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		run.StartedAt.UTC().Format(sqliteTimeFormat),
		run.FinishedAt.UTC().Format(sqliteTimeFormat),
		run.Pages,
		run.Collected,
		run.Persisted,
		run.Status,
		run.ErrorText,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl run: %w", err)
	}

	return result.LastInsertId()
}

// ListCrawlRuns returns the most recent runs, newest first. A limit of
// zero or less returns every run.
func (hdb *HistoryDB) ListCrawlRuns(ctx context.Context, limit int) ([]CrawlRun, error) {
	query := `
	SELECT id, started_at, finished_at, pages, collected, persisted, status, error_text
	FROM crawl_runs
	ORDER BY started_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawl runs: %w", err)
	}
	defer rows.Close()

	var runs []CrawlRun
	for rows.Next() {
		var run CrawlRun
		var started, finished string
		var errorText sql.NullString

		if err := rows.Scan(&run.ID, &started, &finished, &run.Pages,
			&run.Collected, &run.Persisted, &run.Status, &errorText); err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}

		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		run.ErrorText = errorText.String
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// LatestCrawlRun returns the most recent run, or nil when the history is
// empty.
func (hdb *HistoryDB) LatestCrawlRun(ctx context.Context) (*CrawlRun, error) {
	runs, err := hdb.ListCrawlRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// sqliteTimeFormat is SQLite's default datetime rendering; we write
// timestamps in it so datetime() comparisons work in ad hoc queries.
const sqliteTimeFormat = "2006-01-02 15:04:05"

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	sqliteTimeFormat,          // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
