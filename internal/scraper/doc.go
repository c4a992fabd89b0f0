// Package scraper retrieves the paginated contact directory from its
// postback-style web form.
//
// # Architecture
//
// The package is designed around the Session type, which drives the
// page-by-page exchange against the directory endpoint. Three small,
// side-effect-free components do the HTML work:
//
//   - ExtractHiddenFields: collects the hidden form state needed to replay
//     the next postback
//   - ParseContactPage: extracts contact records from the known table layout
//   - ResolveNextPage: finds the navigation anchor advancing to the next
//     sequential page and decodes its postback target
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles the malformed HTML the directory serves
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
//
// # Protocol
//
// The directory has no documented API. Page 1 is fetched with a plain GET;
// every later page is a form-encoded POST replaying the previous page's
// hidden fields plus the __EVENTTARGET/__EVENTARGUMENT pair decoded from
// the next-page anchor. The session cookie captured from the first response
// is reused verbatim for the whole crawl. Termination is purely link-driven:
// when no anchor advances to page N+1, the crawl is done.
//
// Replaying a stateful form-based site without a real browser is inherently
// brittle to server-side markup changes. The markup knowledge is isolated in
// ExtractHiddenFields and ResolveNextPage so a future replacement (e.g. a
// headless browser) only touches those two components.
//
// # Politeness
//
// A fixed one-second delay separates page requests. The delay is constant,
// not adaptive: the directory is small and the goal is simply to avoid
// hammering the server.
package scraper
