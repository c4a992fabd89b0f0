package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/dialdexdev/dialdex/internal/model"
	"github.com/dialdexdev/dialdex/internal/scraper"
)

// ErrRefreshFailed is returned when a crawl yields nothing at all; the
// existing store content is left untouched so callers can keep showing
// prior data.
var ErrRefreshFailed = errors.New("directory refresh failed")

// Crawler retrieves the full directory. Implemented by scraper.Session.
type Crawler interface {
	Crawl(ctx context.Context) (*scraper.CrawlResult, error)
}

// Store is the persistence surface the service needs.
// Implemented by store.ContactStore.
type Store interface {
	ExistsNonEmpty() bool
	LoadAll() []model.ContactRecord
	ReplaceAll(records []model.ContactRecord) error
	Upsert(record model.ContactRecord) error
	Search(query string) (model.ContactRecord, bool)
}

// Service composes the crawl session and the contact store into the two
// operations the command layer consumes: refresh-all and search. Search
// reads the store only; it never triggers network activity.
type Service struct {
	crawler Crawler
	store   Store
	logger  *slog.Logger

	// flights collapses concurrent Refresh calls into a single crawl.
	// Refresh is a read-modify-write over the store file, so at most one
	// may be in flight per service instance.
	flights singleflight.Group
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service over the given crawler and store.
func NewService(crawler Crawler, store Store, opts ...ServiceOption) *Service {
	s := &Service{
		crawler: crawler,
		store:   store,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RefreshSummary describes what a refresh accomplished.
type RefreshSummary struct {
	// Pages is the number of directory pages fetched successfully.
	Pages int

	// Collected is the number of records the crawl produced.
	Collected int

	// Persisted reports whether the store was rewritten.
	Persisted bool

	// Partial is true when the crawl failed mid-way but the records
	// collected up to that point were persisted anyway.
	Partial bool
}

// Refresh crawls the whole directory and replaces the store content.
//
// An empty crawl result never overwrites existing data: a transient
// directory failure must not wipe a good prior store. A crawl that fails
// part-way but still collected records persists the partial result and
// reports Partial rather than failing — the caller keeps the freshest data
// available. Only a crawl that produced nothing returns ErrRefreshFailed.
//
// Concurrent Refresh calls on the same Service share a single in-flight
// crawl and all receive its outcome.
func (s *Service) Refresh(ctx context.Context) (RefreshSummary, error) {
	v, err, _ := s.flights.Do("refresh", func() (any, error) {
		return s.refresh(ctx)
	})
	summary, _ := v.(RefreshSummary)
	return summary, err
}

// refresh performs the actual crawl-then-persist sequence.
func (s *Service) refresh(ctx context.Context) (RefreshSummary, error) {
	result, crawlErr := s.crawler.Crawl(ctx)
	if result == nil {
		result = &scraper.CrawlResult{}
	}

	summary := RefreshSummary{
		Pages:     result.Pages,
		Collected: len(result.Records),
		Partial:   crawlErr != nil && len(result.Records) > 0,
	}

	if len(result.Records) == 0 {
		if crawlErr != nil {
			return summary, fmt.Errorf("%w: %v", ErrRefreshFailed, crawlErr)
		}
		s.logger.Warn("crawl returned no records, keeping existing store")
		return summary, nil
	}

	if crawlErr != nil {
		s.logger.Warn("crawl failed part-way, persisting partial result",
			"pages", result.Pages,
			"records", len(result.Records),
			"error", crawlErr)
	}

	if err := s.store.ReplaceAll(result.Records); err != nil {
		return summary, fmt.Errorf("failed to persist refreshed contacts: %w", err)
	}
	summary.Persisted = true

	s.logger.Info("contact store refreshed",
		"pages", summary.Pages,
		"records", summary.Collected,
		"partial", summary.Partial)
	return summary, nil
}

// Search returns the first stored contact whose normalized phone contains
// the normalized query. It delegates directly to the store and never
// crawls; a missing record is "not found", never an error.
func (s *Service) Search(phone string) (model.ContactRecord, bool) {
	return s.store.Search(phone)
}

// HasData reports whether a prior crawl has populated the store. Callers
// use it to decide whether an initial refresh is needed.
func (s *Service) HasData() bool {
	return s.store.ExistsNonEmpty()
}

// FlagAsScammer marks the given phone number as a scammer, merging the
// flag into the existing record for that number or creating a new one
// carrying whatever fields are known.
func (s *Service) FlagAsScammer(phone string, known model.ContactRecord) error {
	record := known
	record.Phone = phone
	record.IsScammer = true

	if err := s.store.Upsert(record); err != nil {
		return fmt.Errorf("failed to flag %s: %w", model.NormalizePhone(phone), err)
	}
	return nil
}
