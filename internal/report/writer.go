package report

import (
	"io"

	"github.com/dialdexdev/dialdex/internal/model"
)

// Writer defines the interface for contact list output.
// Implementations render the stored contacts in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the contact list to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(contacts []model.ContactRecord) (int, error)
}

// baseWriter holds the output destination shared by all writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter for the given destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// flaggedCount returns how many contacts carry the scammer flag.
func flaggedCount(contacts []model.ContactRecord) int {
	count := 0
	for _, c := range contacts {
		if c.IsScammer {
			count++
		}
	}
	return count
}
