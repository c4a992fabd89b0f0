package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/dialdexdev/dialdex/internal/model"
)

// MarkdownWriter outputs the contact list in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the contact list as a Markdown document.
func (w *MarkdownWriter) Write(contacts []model.ContactRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Contact Directory")
	md.PlainText("")

	flagged := flaggedCount(contacts)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Total contacts", strconv.Itoa(len(contacts))},
			{"Flagged as scammer", strconv.Itoa(flagged)},
		},
	})
	md.PlainText("")

	if len(contacts) == 0 {
		md.PlainText("No contacts stored. Run a refresh first.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	if flagged > 0 {
		md.Warningf("%d number(s) in this directory have been flagged as scammers.", flagged)
		md.PlainText("")
	}

	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		flag := ""
		if c.IsScammer {
			flag = "yes"
		}
		rows = append(rows, []string{c.Name, c.Designation, c.Phone, flag})
	}

	md.H2("Contacts")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Name", "Designation", "Phone", "Scammer"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}
