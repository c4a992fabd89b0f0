package scraper

import "golang.org/x/net/html"

// HiddenFieldSet maps hidden input names to their values for the page's
// primary form. The server round-trips its page/view state through these
// fields, so the set must be fully replaced on every page transition:
// stale values break the next postback.
type HiddenFieldSet map[string]string

// ExtractHiddenFields returns the name/value pair of every
// <input type="hidden"> inside the document's first form element.
//
// If the document has no form, an empty set is returned rather than an
// error: the crawl session decides at the call site whether a missing form
// means the crawl cannot continue. Inputs without a name are skipped.
func ExtractHiddenFields(doc *html.Node) HiddenFieldSet {
	fields := make(HiddenFieldSet)

	form := findElement(doc, "form")
	if form == nil {
		return fields
	}

	for _, input := range collectElements(form, "input", nil) {
		if getAttr(input, "type") != "hidden" {
			continue
		}
		name := getAttr(input, "name")
		if name == "" {
			continue
		}
		fields[name] = getAttr(input, "value")
	}

	return fields
}
