package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// PostbackTarget is the target/argument pair decoded from a navigation
// anchor's postback invocation. It is only valid for one specific page
// transition: the values are produced and consumed within a single
// page-advance step.
type PostbackTarget struct {
	// EventTarget is the control name posted as __EVENTTARGET.
	EventTarget string

	// EventArgument is the navigation argument posted as __EVENTARGUMENT.
	EventArgument string
}

// postbackPattern matches the fixed two-argument postback call syntax
// rendered into pager anchors, e.g.
//
//	javascript:__doPostBack('ctl00$cph$gvContactDirectory','Page$2')
var postbackPattern = regexp.MustCompile(`__doPostBack\('([^']*)','([^']*)'\)`)

// ResolveNextPage scans the document's anchors for the pager link that
// advances from currentPage to exactly currentPage+1 and decodes its
// postback target.
//
// The match must be the immediate successor: not "any higher page" and not
// a next button. If no anchor matches, or the matching href does not follow
// the two-argument call syntax, the second return value is false and the
// crawl terminates. A missing next page is the sole termination condition
// of pagination; it is never an error.
func ResolveNextPage(doc *html.Node, currentPage int) (PostbackTarget, bool) {
	wantArgument := fmt.Sprintf("Page$%d", currentPage+1)

	for _, anchor := range collectElements(doc, "a", nil) {
		href := getAttr(anchor, "href")
		if !strings.Contains(href, "__doPostBack") {
			continue
		}

		m := postbackPattern.FindStringSubmatch(href)
		if m == nil {
			// Postback invocation that doesn't follow the known
			// syntax: treat as no next page, not an error.
			continue
		}
		if m[2] != wantArgument {
			continue
		}

		return PostbackTarget{EventTarget: m[1], EventArgument: m[2]}, true
	}

	return PostbackTarget{}, false
}
