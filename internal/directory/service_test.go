package directory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dialdexdev/dialdex/internal/model"
	"github.com/dialdexdev/dialdex/internal/scraper"
	"github.com/dialdexdev/dialdex/internal/store"
)

// fakeCrawler returns a canned crawl result, counting invocations.
type fakeCrawler struct {
	result *scraper.CrawlResult
	err    error

	// delay makes the crawl observable by concurrent callers.
	delay time.Duration

	calls atomic.Int32
}

func (f *fakeCrawler) Crawl(ctx context.Context) (*scraper.CrawlResult, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return &scraper.CrawlResult{}, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.result, f.err
}

// newTestService wires a fake crawler to a real file-backed store.
func newTestService(t *testing.T, crawler Crawler) (*Service, *store.ContactStore) {
	t.Helper()
	st := store.New(t.TempDir() + "/contacts.json")
	return NewService(crawler, st), st
}

// TestServiceRefresh tests crawl-then-persist behavior.
func TestServiceRefresh(t *testing.T) {
	t.Parallel()

	records := []model.ContactRecord{
		{Name: "Control Room", Designation: "Control Room", Phone: "100"},
		{Name: "Traffic", Designation: "Traffic", Phone: "103"},
	}

	t.Run("persists a successful crawl", func(t *testing.T) {
		t.Parallel()

		svc, st := newTestService(t, &fakeCrawler{
			result: &scraper.CrawlResult{Records: records, Pages: 2},
		})

		summary, err := svc.Refresh(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !summary.Persisted || summary.Collected != 2 || summary.Pages != 2 {
			t.Errorf("unexpected summary %+v", summary)
		}
		if got := st.LoadAll(); len(got) != 2 {
			t.Errorf("expected 2 stored records, got %d", len(got))
		}
	})

	t.Run("empty crawl never wipes existing data", func(t *testing.T) {
		t.Parallel()

		svc, st := newTestService(t, &fakeCrawler{
			result: &scraper.CrawlResult{Records: nil, Pages: 1},
		})
		if err := st.ReplaceAll(records); err != nil {
			t.Fatal(err)
		}

		summary, err := svc.Refresh(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Persisted {
			t.Error("empty crawl must not persist")
		}
		if got := st.LoadAll(); len(got) != 2 {
			t.Errorf("prior store content was wiped: %d records left", len(got))
		}
	})

	t.Run("failed empty crawl returns ErrRefreshFailed and keeps store", func(t *testing.T) {
		t.Parallel()

		svc, st := newTestService(t, &fakeCrawler{
			result: &scraper.CrawlResult{},
			err:    scraper.ErrUnexpectedStatus,
		})
		if err := st.ReplaceAll(records); err != nil {
			t.Fatal(err)
		}

		_, err := svc.Refresh(context.Background())
		if !errors.Is(err, ErrRefreshFailed) {
			t.Fatalf("expected ErrRefreshFailed, got %v", err)
		}
		if got := st.LoadAll(); len(got) != 2 {
			t.Errorf("failed refresh wiped the store: %d records left", len(got))
		}
	})

	t.Run("partial crawl persists what was collected", func(t *testing.T) {
		t.Parallel()

		svc, st := newTestService(t, &fakeCrawler{
			result: &scraper.CrawlResult{Records: records[:1], Pages: 1},
			err:    scraper.ErrUnexpectedStatus,
		})

		summary, err := svc.Refresh(context.Background())
		if err != nil {
			t.Fatalf("partial refresh should not error, got %v", err)
		}
		if !summary.Partial || !summary.Persisted {
			t.Errorf("expected partial persisted summary, got %+v", summary)
		}
		if got := st.LoadAll(); len(got) != 1 {
			t.Errorf("expected 1 persisted record, got %d", len(got))
		}
	})

	t.Run("concurrent refreshes share one crawl", func(t *testing.T) {
		t.Parallel()

		crawler := &fakeCrawler{
			result: &scraper.CrawlResult{Records: records, Pages: 2},
			delay:  100 * time.Millisecond,
		}
		svc, _ := newTestService(t, crawler)

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.Refresh(context.Background()); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if n := crawler.calls.Load(); n != 1 {
			t.Errorf("expected 1 shared crawl, got %d", n)
		}
	})
}

// TestServiceSearch tests that search stays offline.
func TestServiceSearch(t *testing.T) {
	t.Parallel()

	crawler := &fakeCrawler{result: &scraper.CrawlResult{}}
	svc, st := newTestService(t, crawler)
	if err := st.ReplaceAll([]model.ContactRecord{{Name: "First", Phone: "9876543210"}}); err != nil {
		t.Fatal(err)
	}

	got, ok := svc.Search("876543")
	if !ok || got.Name != "First" {
		t.Errorf("expected substring match, got %+v (ok=%v)", got, ok)
	}

	if _, ok := svc.Search("000"); ok {
		t.Error("expected no match")
	}

	if n := crawler.calls.Load(); n != 0 {
		t.Errorf("search must never crawl, saw %d crawls", n)
	}
}

// TestServiceFlagAsScammer tests flag-by-upsert.
func TestServiceFlagAsScammer(t *testing.T) {
	t.Parallel()

	t.Run("merges the flag into an existing record", func(t *testing.T) {
		t.Parallel()

		svc, st := newTestService(t, &fakeCrawler{result: &scraper.CrawlResult{}})
		if err := st.ReplaceAll([]model.ContactRecord{{Name: "Jane", Phone: "123"}}); err != nil {
			t.Fatal(err)
		}

		if err := svc.FlagAsScammer("123", model.ContactRecord{}); err != nil {
			t.Fatal(err)
		}

		got := st.LoadAll()
		if len(got) != 1 {
			t.Fatalf("expected 1 record, got %d", len(got))
		}
		if got[0].Name != "Jane" || !got[0].IsScammer {
			t.Errorf("expected flagged Jane, got %+v", got[0])
		}
	})

	t.Run("creates a record for an unknown number", func(t *testing.T) {
		t.Parallel()

		svc, st := newTestService(t, &fakeCrawler{result: &scraper.CrawlResult{}})
		if err := svc.FlagAsScammer("555", model.ContactRecord{Name: "Reported"}); err != nil {
			t.Fatal(err)
		}

		got := st.LoadAll()
		if len(got) != 1 || !got[0].IsScammer || got[0].Name != "Reported" {
			t.Errorf("expected new flagged record, got %+v", got)
		}
	})
}

// TestServiceHasData tests the initial-crawl check passthrough.
func TestServiceHasData(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t, &fakeCrawler{result: &scraper.CrawlResult{}})
	if svc.HasData() {
		t.Error("fresh store should report no data")
	}
	if err := st.ReplaceAll([]model.ContactRecord{{Phone: "1"}}); err != nil {
		t.Fatal(err)
	}
	if !svc.HasData() {
		t.Error("populated store should report data")
	}
}
