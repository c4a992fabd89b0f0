package scraper

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dialdexdev/dialdex/internal/model"
)

// Stable markup identifiers for the contact grid. The server renders the
// directory as a GridView whose element ids are stable across pages; the
// per-row labels carry auto-generated prefixes, so rows are matched on the
// id fragment rather than the full id.
const (
	// contactTableID is the id of the table holding the contact rows.
	contactTableID = "ContentPlaceHolder1_gvContactDirectory"

	// nameLabelID is the id fragment of the label holding the contact name.
	nameLabelID = "lblName"

	// phoneLabelID is the id fragment of the label holding the phone number.
	phoneLabelID = "lblContactNumber"
)

// ParseContactPage extracts contact records from the known table layout of
// a directory page.
//
// If the contact table is absent, an empty list is returned rather than an
// error: the caller decides whether an empty page terminates the crawl.
// Each data row after the header contributes a record only if its trimmed
// name or phone is non-empty. Row order is preserved and no deduplication
// happens here; dedup is the store's job.
//
// Designation is populated with the same value as the name: the page
// renders no separate designation column.
func ParseContactPage(doc *html.Node) []model.ContactRecord {
	records := make([]model.ContactRecord, 0)

	table := findElementByID(doc, contactTableID)
	if table == nil {
		return records
	}

	rows := collectElements(table, "tr", nil)
	if len(rows) == 0 {
		return records
	}

	// The first row is the header. Pager rows carry no labels and fall
	// out naturally through the empty-record check.
	for _, row := range rows[1:] {
		name := strings.TrimSpace(nodeText(findLabel(row, nameLabelID)))
		phone := strings.TrimSpace(nodeText(findLabel(row, phoneLabelID)))

		record := model.ContactRecord{
			Name:        name,
			Designation: name,
			Phone:       phone,
		}
		if record.Empty() {
			continue
		}
		records = append(records, record)
	}

	return records
}

// findLabel returns the first element under n whose id contains the given
// fragment, or nil if none exists.
func findLabel(n *html.Node, idFragment string) *html.Node {
	if n.Type == html.ElementNode && strings.Contains(getAttr(n, "id"), idFragment) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findLabel(c, idFragment); found != nil {
			return found
		}
	}
	return nil
}
