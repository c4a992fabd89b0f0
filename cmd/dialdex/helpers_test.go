package main

import (
	"path/filepath"
	"testing"

	"github.com/dialdexdev/dialdex/internal/model"
	"github.com/dialdexdev/dialdex/internal/store"
	"github.com/spf13/cobra"
)

// mustSetFlag sets a flag value, failing the test on error. Flags set this
// way count as changed, exactly like flags parsed from the command line.
func mustSetFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("failed to set --%s=%s: %v", name, value, err)
	}
}

// seedStore writes the given records to a fresh store file in a temp
// directory and returns the store path.
func seedStore(t *testing.T, records []model.ContactRecord) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := store.New(path).ReplaceAll(records); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return path
}

// sampleContacts returns a small directory worth of contacts.
func sampleContacts() []model.ContactRecord {
	return []model.ContactRecord{
		{Name: "District Collector", Designation: "District Collector", Phone: "0471-2345678"},
		{Name: "Police Control Room", Designation: "Police Control Room", Phone: "+91 98765 43210"},
		{Name: "Known Fraudster", Designation: "Known Fraudster", Phone: "9000000001", IsScammer: true},
	}
}
