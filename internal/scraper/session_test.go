package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// directoryHandler simulates the postback-paginated directory endpoint.
// Each page carries its own viewstate, two contacts, and pager anchors for
// every other page, mirroring how the real grid renders its pager.
type directoryHandler struct {
	t *testing.T

	// totalPages is the directory size.
	totalPages int

	// failOnPage returns a 500 for this page number (0 disables).
	failOnPage int

	// sessionCookie is sent on the first response only.
	sessionCookie string
}

func (h *directoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := 1
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			h.t.Errorf("failed to parse postback form: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		arg := r.PostFormValue("__EVENTARGUMENT")
		if _, err := fmt.Sscanf(arg, "Page$%d", &page); err != nil {
			h.t.Errorf("unexpected event argument %q", arg)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// The postback must replay the previous page's viewstate.
		wantState := fmt.Sprintf("state-page-%d", page-1)
		if got := r.PostFormValue("__VIEWSTATE"); got != wantState {
			h.t.Errorf("page %d postback carried viewstate %q, want %q", page, got, wantState)
		}
		if h.sessionCookie != "" && r.Header.Get("Cookie") != h.sessionCookie {
			h.t.Errorf("page %d postback carried cookie %q, want %q",
				page, r.Header.Get("Cookie"), h.sessionCookie)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			h.t.Errorf("unexpected content type %q", ct)
		}
		if r.Header.Get("Referer") == "" {
			h.t.Error("postback missing Referer header")
		}
	}

	if page == h.failOnPage {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if r.Method == http.MethodGet && h.sessionCookie != "" {
		w.Header().Set("Set-Cookie", h.sessionCookie)
	}

	var pager strings.Builder
	for p := 1; p <= h.totalPages; p++ {
		if p == page {
			continue
		}
		fmt.Fprintf(&pager,
			`<a href="javascript:__doPostBack('ctl00$cph$gvContactDirectory','Page$%d')">%d</a>`,
			p, p)
	}

	rows := contactRow("0", fmt.Sprintf("Officer %d-A", page), fmt.Sprintf("100%d1", page)) +
		contactRow("1", fmt.Sprintf("Officer %d-B", page), fmt.Sprintf("100%d2", page))

	fmt.Fprintf(w, `<html><body>
	<form method="post" action="./ContactDirectory.aspx" id="form1">
		<input type="hidden" name="__VIEWSTATE" value="state-page-%d" />
		<input type="hidden" name="__EVENTVALIDATION" value="ev-%d" />
		<table id="ContentPlaceHolder1_gvContactDirectory">
			<tr><th>Name</th><th>Contact Number</th></tr>
			%s
			<tr><td colspan="2">%s</td></tr>
		</table>
	</form>
	</body></html>`, page, page, rows, pager.String())
}

// newTestSession creates a Session against the handler with a tiny delay.
func newTestSession(t *testing.T, handler http.Handler) (*Session, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	session, err := NewSession(srv.Client(), srv.URL, WithDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session, srv
}

// TestSessionCrawl tests the full page-advance exchange.
func TestSessionCrawl(t *testing.T) {
	t.Parallel()

	t.Run("crawls all linked pages and terminates", func(t *testing.T) {
		t.Parallel()

		handler := &directoryHandler{
			t:             t,
			totalPages:    3,
			sessionCookie: "ASP.NET_SessionId=abc123; path=/; HttpOnly",
		}
		session, _ := newTestSession(t, handler)

		result, err := session.Crawl(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}
		if result.Pages != 3 {
			t.Errorf("expected 3 pages, got %d", result.Pages)
		}
		if len(result.Records) != 6 {
			t.Fatalf("expected 6 records, got %d", len(result.Records))
		}

		// Page-then-row order.
		if result.Records[0].Name != "Officer 1-A" {
			t.Errorf("unexpected first record %+v", result.Records[0])
		}
		if result.Records[5].Name != "Officer 3-B" {
			t.Errorf("unexpected last record %+v", result.Records[5])
		}
	})

	t.Run("single page directory stops after page one", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &directoryHandler{t: t, totalPages: 1})

		result, err := session.Crawl(context.Background())
		if err != nil {
			t.Fatalf("unexpected crawl error: %v", err)
		}
		if result.Pages != 1 || len(result.Records) != 2 {
			t.Errorf("expected 1 page with 2 records, got %d pages, %d records",
				result.Pages, len(result.Records))
		}
	})

	t.Run("failed page preserves earlier records", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &directoryHandler{
			t:          t,
			totalPages: 3,
			failOnPage: 2,
		})

		result, err := session.Crawl(context.Background())
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
		}
		if result.Pages != 1 {
			t.Errorf("expected 1 successful page, got %d", result.Pages)
		}
		if len(result.Records) != 2 {
			t.Errorf("expected the 2 records from page 1, got %d", len(result.Records))
		}
	})

	t.Run("failed first page returns empty result", func(t *testing.T) {
		t.Parallel()

		session, _ := newTestSession(t, &directoryHandler{
			t:          t,
			totalPages: 2,
			failOnPage: 1,
		})

		result, err := session.Crawl(context.Background())
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
		}
		if len(result.Records) != 0 {
			t.Errorf("expected no records, got %d", len(result.Records))
		}
	})

	t.Run("transport error preserves partial result", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		handler := &directoryHandler{t: t, totalPages: 3}
		wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				// Kill the connection mid-crawl.
				srv.CloseClientConnections()
				return
			}
			handler.ServeHTTP(w, r)
		})

		srv = httptest.NewServer(wrapped)
		t.Cleanup(srv.Close)

		session, err := NewSession(srv.Client(), srv.URL, WithDelay(time.Millisecond))
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		result, err := session.Crawl(context.Background())
		if err == nil {
			t.Fatal("expected a transport error")
		}
		if len(result.Records) != 2 {
			t.Errorf("expected the 2 records from page 1, got %d", len(result.Records))
		}
	})

	t.Run("cancellation between pages returns partial result", func(t *testing.T) {
		t.Parallel()

		handler := &directoryHandler{t: t, totalPages: 3}
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)

		session, err := NewSession(srv.Client(), srv.URL, WithDelay(5*time.Second))
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		result, err := session.Crawl(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected context deadline error, got %v", err)
		}
		if len(result.Records) != 2 {
			t.Errorf("expected the 2 records from page 1, got %d", len(result.Records))
		}
	})
}

// TestNewSession tests session construction.
func TestNewSession(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty endpoint", func(t *testing.T) {
		t.Parallel()
		if _, err := NewSession(http.DefaultClient, ""); !errors.Is(err, ErrNoEndpoint) {
			t.Errorf("expected ErrNoEndpoint, got %v", err)
		}
	})
}
