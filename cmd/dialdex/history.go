package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dialdexdev/dialdex/internal/config"
	"github.com/dialdexdev/dialdex/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past crawl runs",
		Long: `History lists past refresh runs recorded in the local database, newest
first. Each row shows when the crawl ran, how many pages and contacts it
produced, and whether it completed, stopped part-way, or failed.`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of runs to show")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no crawl history yet; run \"dialdex refresh\" first")
	}
	defer db.Close()

	runs, err := db.ListCrawlRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to read crawl history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawl runs recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tDURATION\tPAGES\tCONTACTS\tSTATUS")
	for _, run := range runs {
		duration := run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond)
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			run.Pages,
			run.Collected,
			run.Status,
		)
	}
	return w.Flush()
}
