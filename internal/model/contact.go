package model

import "strings"

// ContactRecord is a single directory entry scraped from the contact
// directory or created locally by flagging a number.
//
// Design decision: We use a fixed struct rather than a string-keyed map
// because:
//  1. Absent keys in dynamic maps silently default differently across
//     call sites, which is a latent bug class
//  2. The JSON store format is stable and has exactly these four fields
//  3. The zero value (IsScammer=false) matches the directory default
type ContactRecord struct {
	// Name is the contact's display name as shown in the directory.
	Name string `json:"name"`

	// Designation is the contact's role or title.
	// The directory page exposes no separate designation column, so the
	// parser populates this with the same value as Name.
	Designation string `json:"designation"`

	// Phone is the contact number exactly as rendered on the page.
	// Comparison always goes through NormalizePhone, never raw equality.
	Phone string `json:"phone"`

	// IsScammer marks a number that was flagged by the user.
	// Defaults to false for scraped records.
	IsScammer bool `json:"isScammer"`
}

// NormalizePhone strips every non-digit character from a phone number,
// producing the canonical key used for deduplication and search.
//
//	NormalizePhone("+91 98-765 43210") == "919876543210"
//	NormalizePhone("") == ""
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizedPhone returns the canonical dedup key for this record.
// The normalized form is derived on demand and never stored.
func (c ContactRecord) NormalizedPhone() string {
	return NormalizePhone(c.Phone)
}

// SamePhone reports whether two records refer to the same contact,
// using exact equality of the normalized phone numbers.
func (c ContactRecord) SamePhone(other ContactRecord) bool {
	return c.NormalizedPhone() == other.NormalizedPhone()
}

// Merge overlays another record onto this one field by field and returns
// the result. Non-empty fields from overlay win; empty overlay fields keep
// the existing value. IsScammer is sticky: once a number is flagged it
// stays flagged (there is no unflag operation).
func (c ContactRecord) Merge(overlay ContactRecord) ContactRecord {
	merged := c
	if overlay.Name != "" {
		merged.Name = overlay.Name
	}
	if overlay.Designation != "" {
		merged.Designation = overlay.Designation
	}
	if overlay.Phone != "" {
		merged.Phone = overlay.Phone
	}
	if overlay.IsScammer {
		merged.IsScammer = true
	}
	return merged
}

// Empty reports whether the record carries no identifying information.
// A record with neither a name nor a phone is dropped by the parser.
func (c ContactRecord) Empty() bool {
	return strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.Phone) == ""
}
