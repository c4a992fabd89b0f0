package report

import (
	"encoding/json"
	"io"

	"github.com/dialdexdev/dialdex/internal/model"
)

// JSONWriter outputs the contact list in JSON format, the same array-of-
// objects shape the contact store persists. This format is designed for
// tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the contact list as a JSON array.
func (w *JSONWriter) Write(contacts []model.ContactRecord) (int, error) {
	if contacts == nil {
		contacts = []model.ContactRecord{}
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(contacts, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(contacts)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
