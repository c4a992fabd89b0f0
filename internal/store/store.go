package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dialdexdev/dialdex/internal/model"
)

// ContactStore is a persistent keyed collection of contact records backed
// by a single JSON file. The dedup key is the normalized phone number.
//
// Design decision: We keep the original single-JSON-file layout rather
// than moving contacts into SQLite because:
//  1. The format is the store's external interface: a JSON array of
//     {name, designation, phone, isScammer} objects
//  2. The directory is small; a full read-modify-write per upsert is cheap
//  3. File absence naturally encodes "no data yet"
//
// Upsert and ReplaceAll are read-modify-write over the same file, so both
// are serialized by a mutex; without it a concurrent writer would be a
// lost-update race (last writer wins).
type ContactStore struct {
	// path is the backing file location.
	path string

	// logger records swallowed read failures.
	logger *slog.Logger

	// mu serializes writers. Reads don't take it: a completed rename is
	// the only visible write, so a reader always sees a full file.
	mu sync.Mutex
}

// Option configures a ContactStore.
type Option func(*ContactStore)

// WithLogger sets the logger used for recovered read failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *ContactStore) {
		s.logger = logger
	}
}

// New creates a ContactStore backed by the file at path. The file and its
// directory are created lazily on the first write.
func New(path string, opts ...Option) *ContactStore {
	s := &ContactStore{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file location.
func (s *ContactStore) Path() string {
	return s.path
}

// ExistsNonEmpty reports whether the backing file exists with non-zero
// content length. It does not validate that the content is well-formed
// JSON; callers use it only to decide whether an initial crawl is needed.
func (s *ContactStore) ExistsNonEmpty() bool {
	info, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	return info.Size() > 0
}

// LoadAll returns every stored record in file order.
//
// A missing file, an empty file, or corrupt content all load as "no data":
// the failure is logged, never surfaced. Losing a readable store must not
// take the search path down with it.
func (s *ContactStore) LoadAll() []model.ContactRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("contact store unreadable, treating as empty",
				"path", s.path, "error", err)
		}
		return []model.ContactRecord{}
	}
	if len(data) == 0 {
		return []model.ContactRecord{}
	}

	var records []model.ContactRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("contact store corrupt, treating as empty",
			"path", s.path, "error", err)
		return []model.ContactRecord{}
	}
	return records
}

// ReplaceAll serializes the full record sequence and overwrites the
// backing file. Unlike reads, write failures propagate: silently losing a
// successful crawl's results would be worse than an explicit failure.
//
// The write is atomic from a reader's perspective: the records are written
// to a temporary file in the same directory and renamed over the target,
// so the store file is never observed partially written.
func (s *ContactStore) ReplaceAll(records []model.ContactRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceAllLocked(records)
}

// replaceAllLocked writes the records. The caller must hold mu.
func (s *ContactStore) replaceAllLocked(records []model.ContactRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize contacts: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary store file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// Upsert inserts the record or merges it into the existing entry with the
// same normalized phone (exact match, not substring). On a match the new
// record is overlaid field by field onto the existing one: new non-empty
// fields win, and the scammer flag is sticky. The resulting set is always
// rewritten in full.
func (s *ContactStore) Upsert(record model.ContactRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.LoadAll()
	key := record.NormalizedPhone()

	found := false
	for i, existing := range records {
		if existing.NormalizedPhone() == key {
			records[i] = existing.Merge(record)
			found = true
			break
		}
	}
	if !found {
		records = append(records, record)
	}

	return s.replaceAllLocked(records)
}

// Search returns the first stored record whose normalized phone contains
// the normalized query as a substring, in file order. No ranking, no
// multi-match reporting: first match wins.
//
// A query that normalizes to the empty string never matches; otherwise an
// empty query would "contain-match" every record.
func (s *ContactStore) Search(query string) (model.ContactRecord, bool) {
	normalized := model.NormalizePhone(query)
	if normalized == "" {
		return model.ContactRecord{}, false
	}

	for _, record := range s.LoadAll() {
		if strings.Contains(record.NormalizedPhone(), normalized) {
			return record, true
		}
	}
	return model.ContactRecord{}, false
}
