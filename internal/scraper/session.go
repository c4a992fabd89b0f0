package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/dialdexdev/dialdex/internal/model"
)

// crawlPhase is the state of the page-advance machine. Every crawl moves
// Idle → FetchingFirstPage → PageReady → AdvancingPage → PageReady → … →
// Done, with Failed reachable from any fetching or advancing phase.
type crawlPhase int

const (
	phaseIdle crawlPhase = iota
	phaseFetchingFirstPage
	phasePageReady
	phaseAdvancingPage
	phaseDone
	phaseFailed
)

// String returns the phase name for logging.
func (p crawlPhase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseFetchingFirstPage:
		return "fetching-first-page"
	case phasePageReady:
		return "page-ready"
	case phaseAdvancingPage:
		return "advancing-page"
	case phaseDone:
		return "done"
	case phaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// The postback parameter names the server expects on every page advance.
const (
	eventTargetField   = "__EVENTTARGET"
	eventArgumentField = "__EVENTARGUMENT"
)

// Session drives GET/POST exchanges against the directory endpoint.
//
// A Session holds only immutable configuration; all per-crawl mutable state
// (cookie, current page, hidden fields, accumulated records) lives in an
// explicit crawlState value created by Crawl. That keeps Crawl safe to call
// from independent goroutines on the same Session: each call is its own
// state machine.
type Session struct {
	// client performs the HTTP exchanges. It should carry a bounded
	// per-request timeout; the directory specifies none, and an
	// indefinite hang would stall the whole crawl.
	client *http.Client

	// endpoint is the single fixed directory URL, used for both the
	// initial GET and every postback POST.
	endpoint string

	// delay is the politeness pause between page requests.
	delay time.Duration

	// userAgent is sent on every request as part of the fixed
	// browser-like header set.
	userAgent string

	// maxBodySize limits how much of a response body is read.
	maxBodySize int64

	// logger receives per-page progress at debug level.
	logger *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDelay sets the inter-request politeness delay.
func WithDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		s.delay = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) SessionOption {
	return func(s *Session) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) SessionOption {
	return func(s *Session) {
		s.maxBodySize = size
	}
}

// WithLogger sets the logger used for crawl progress.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a Session for the given directory endpoint.
//
// Design decision: We require an external client because:
//  1. Timeout policy belongs to the caller's configuration
//  2. Tests can inject httptest clients
//  3. Consistent with how the reputation client is constructed
func NewSession(client *http.Client, endpoint string, opts ...SessionOption) (*Session, error) {
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid directory endpoint: %w", err)
	}

	s := &Session{
		client:      client,
		endpoint:    endpoint,
		delay:       1 * time.Second,
		userAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
		maxBodySize: 5 * 1024 * 1024, // 5MB
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// crawlState is the explicit per-crawl state threaded through the
// page-advance steps. It is created at crawl start and discarded at crawl
// end; nothing in it is persisted.
type crawlState struct {
	// phase is the current state-machine phase.
	phase crawlPhase

	// cookie is the Set-Cookie header captured verbatim from the first
	// response. Once captured it is reused for every subsequent request;
	// later Set-Cookie headers are ignored (no cookie-jar merging).
	cookie string

	// page is the 1-based number of the last successfully parsed page.
	// It only increments, never resets mid-crawl.
	page int

	// hidden is the hidden-field set of the current page. It is fully
	// replaced after every fetch.
	hidden HiddenFieldSet

	// records accumulates parsed contacts in page-then-row order.
	records []model.ContactRecord
}

// CrawlResult is the outcome of a crawl: the accumulated records plus how
// many pages were successfully fetched. On a failed crawl the result holds
// everything collected through the last successful page.
type CrawlResult struct {
	// Records are the parsed contacts in page-then-row order.
	Records []model.ContactRecord

	// Pages is the number of pages fetched and parsed successfully.
	Pages int
}

// Crawl retrieves every page of the directory and returns the accumulated
// contact records.
//
// Any transport error or non-200 response terminates the crawl: the
// returned result still carries the records collected so far, alongside
// the error. Cancellation is honored between page fetches (at the
// politeness delay), not mid-request; a cancelled crawl likewise returns
// its partial result with ctx.Err().
func (s *Session) Crawl(ctx context.Context) (*CrawlResult, error) {
	st := &crawlState{phase: phaseIdle, records: make([]model.ContactRecord, 0)}

	st.phase = phaseFetchingFirstPage
	s.logger.Debug("crawl state", "phase", st.phase.String(), "page", 1)

	doc, err := s.fetchFirstPage(ctx, st)
	if err != nil {
		st.phase = phaseFailed
		return s.result(st), err
	}
	s.consumePage(st, doc)

	for {
		st.phase = phaseAdvancingPage
		target, ok := ResolveNextPage(doc, st.page)
		if !ok {
			st.phase = phaseDone
			s.logger.Debug("crawl state", "phase", st.phase.String(),
				"pages", st.page, "records", len(st.records))
			return s.result(st), nil
		}

		// Politeness throttle between page requests. This is also the
		// crawl's cancellation point.
		select {
		case <-ctx.Done():
			st.phase = phaseFailed
			return s.result(st), ctx.Err()
		case <-time.After(s.delay):
		}

		doc, err = s.advancePage(ctx, st, target)
		if err != nil {
			st.phase = phaseFailed
			return s.result(st), err
		}
		s.consumePage(st, doc)
	}
}

// result snapshots the crawl state into a CrawlResult.
func (s *Session) result(st *crawlState) *CrawlResult {
	return &CrawlResult{Records: st.records, Pages: st.page}
}

// consumePage replaces the hidden-field set, accumulates the page's
// contact records, and advances the page counter, moving the machine to
// PageReady.
func (s *Session) consumePage(st *crawlState, doc *html.Node) {
	st.hidden = ExtractHiddenFields(doc)
	pageRecords := ParseContactPage(doc)
	st.records = append(st.records, pageRecords...)
	st.page++

	st.phase = phasePageReady
	s.logger.Debug("crawl state", "phase", st.phase.String(),
		"page", st.page, "pageRecords", len(pageRecords),
		"hiddenFields", len(st.hidden))
}

// fetchFirstPage issues the initial GET and captures the session cookie.
func (s *Session) fetchFirstPage(ctx context.Context, st *crawlState) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, err
	}
	s.setCommonHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The only cookie captured during the entire crawl. Kept verbatim,
	// raw attributes included: the server accepts it echoed back as-is.
	st.cookie = resp.Header.Get("Set-Cookie")

	return s.parseResponse(st, resp)
}

// advancePage issues the postback POST for the given target, replaying the
// current hidden fields.
func (s *Session) advancePage(ctx context.Context, st *crawlState, target PostbackTarget) (*html.Node, error) {
	form := url.Values{}
	for name, value := range st.hidden {
		form.Set(name, value)
	}
	form.Set(eventTargetField, target.EventTarget)
	form.Set(eventArgumentField, target.EventArgument)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	s.setCommonHeaders(req)
	req.Header.Set("Referer", s.endpoint)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	if st.cookie != "" {
		req.Header.Set("Cookie", st.cookie)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return s.parseResponse(st, resp)
}

// parseResponse validates the status and parses the body as a full HTML
// document. The server is assumed to return complete pages, never
// partial-update fragments.
func (s *Session) parseResponse(st *crawlState, resp *http.Response) (*html.Node, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d on page %d", ErrUnexpectedStatus,
			resp.StatusCode, st.page+1)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse page %d: %w", st.page+1, err)
	}
	return doc, nil
}

// setCommonHeaders applies the fixed browser-like header set sent on every
// request of the crawl.
func (s *Session) setCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
}
