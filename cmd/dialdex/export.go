package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dialdexdev/dialdex/internal/report"
	"github.com/dialdexdev/dialdex/internal/store"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the local contact store as JSON or Markdown",
		Long: `Export writes the full contents of the local contact store to stdout or
a file. JSON output mirrors the store format; Markdown output includes a
summary table and highlights flagged numbers.

Examples:
  # JSON to stdout (default)
  dialdex export

  # Markdown to a file
  dialdex export --markdown -o contacts.md`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (default; mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write to specified file path (creates directories if needed)")
	cmd.Flags().StringP("store", "s", "",
		"Contact store path (default: the XDG data directory)")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if asJSON && asMarkdown {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	storePath, err := cmd.Flags().GetString("store")
	if err != nil {
		return err
	}
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return err
	}
	if storePath != "" {
		cfg.StorePath = storePath
	}

	contacts := store.New(cfg.StorePath, store.WithLogger(setupLogger(cmd)))
	if !contacts.ExistsNonEmpty() {
		return fmt.Errorf("the contact store is empty; run \"dialdex refresh\" first")
	}
	records := contacts.LoadAll()

	output, closeOutput, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOutput()

	var writer report.Writer
	if asMarkdown {
		writer = report.NewMarkdownWriter(output)
	} else {
		writer = report.NewJSONWriter(output, report.WithIndent("", "  "))
	}

	_, err = writer.Write(records)
	return err
}

// openOutput resolves the --output flag to a writer. The returned close
// function is a no-op for stdout.
func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
