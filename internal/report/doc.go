// Package report renders the stored contact list for export.
//
// Two formats are provided: JSON (the same array shape the contact store
// persists, for tool integration) and Markdown (a human-readable table,
// for documentation and sharing). Both implement the Writer interface so
// the export command can treat them uniformly.
package report
