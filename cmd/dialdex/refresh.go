package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dialdexdev/dialdex/internal/config"
	"github.com/dialdexdev/dialdex/internal/database"
	"github.com/dialdexdev/dialdex/internal/directory"
	"github.com/dialdexdev/dialdex/internal/scraper"
	"github.com/dialdexdev/dialdex/internal/store"
	"github.com/spf13/cobra"
)

// NewRefreshCmd creates the refresh command.
func NewRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Crawl the directory site and rebuild the local contact store",
		Long: `Refresh crawls every page of the contact directory and replaces the
local JSON store with the collected contacts.

The directory is an ASP.NET WebForms site: the first page is fetched with
a plain GET and every following page with a __doPostBack form POST that
echoes the hidden state fields of the previous response. Pages are fetched
strictly one at a time with a politeness delay in between.

A crawl that fails part-way still persists the contacts collected so far;
a crawl that produces nothing leaves the existing store untouched.

Examples:
  # Crawl the directory configured in .dialdex
  dialdex refresh

  # Crawl an explicit directory URL
  dialdex refresh --url https://directory.example.gov/ContactDirectory.aspx

  # Slow down between pages
  dialdex refresh --delay 3s`,
		Args: cobra.NoArgs,
		RunE: runRefreshCmd,
	}

	cmd.Flags().StringP("url", "u", "",
		"Directory page URL (overrides the config file)")
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Pause between page requests")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().StringP("user-agent", "a", "",
		"User-Agent header sent to the directory")
	cmd.Flags().StringP("store", "s", "",
		"Contact store path (default: the XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .dialdex in current or home directory)")

	return cmd
}

// runRefreshCmd executes the refresh command.
func runRefreshCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildRefreshConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runRefresh(ctx, cmd, cfg, logger)
}

// buildRefreshConfig overlays refresh flags onto the base configuration.
func buildRefreshConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return nil, err
	}

	url, err := cmd.Flags().GetString("url")
	if err != nil {
		return nil, err
	}
	if url != "" {
		cfg.DirectoryEndpoint = url
	}

	if cmd.Flags().Changed("delay") {
		cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}

	userAgent, err := cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		cfg.UserAgent = userAgent
	}

	storePath, err := cmd.Flags().GetString("store")
	if err != nil {
		return nil, err
	}
	if storePath != "" {
		cfg.StorePath = storePath
	}

	return cfg, nil
}

// runRefresh wires the crawl session, the store, and the history database
// together and executes a single refresh.
func runRefresh(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting refresh",
		"endpoint", cfg.DirectoryEndpoint,
		"store", cfg.StorePath,
		"delay", cfg.CrawlDelay,
	)

	session, err := scraper.NewSession(
		&http.Client{Timeout: cfg.Timeout},
		cfg.DirectoryEndpoint,
		scraper.WithDelay(cfg.CrawlDelay),
		scraper.WithUserAgent(cfg.UserAgent),
		scraper.WithMaxBodySize(cfg.MaxBodySize),
		scraper.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create crawl session: %w", err)
	}

	contacts := store.New(cfg.StorePath, store.WithLogger(logger))
	svc := directory.NewService(session, contacts, directory.WithLogger(logger))

	startedAt := time.Now()
	summary, refreshErr := svc.Refresh(ctx)
	finishedAt := time.Now()

	// The run is recorded even when the crawl was cancelled, so the
	// history insert must outlive the signal-cancelled context.
	recordRun(context.WithoutCancel(ctx), cfg, logger, startedAt, finishedAt, summary, refreshErr)

	if refreshErr != nil {
		if errors.Is(refreshErr, directory.ErrRefreshFailed) {
			return fmt.Errorf("refresh produced no contacts: %w", refreshErr)
		}
		return refreshErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Crawled %d pages, collected %d contacts\n", summary.Pages, summary.Collected)
	if summary.Partial {
		fmt.Fprintln(out, "Warning: crawl stopped early; the store holds a partial result")
	}
	fmt.Fprintf(out, "Store updated: %s\n", cfg.StorePath)

	return nil
}

// recordRun appends the refresh outcome to the crawl history database.
// History is bookkeeping: a failure here is logged, never fatal.
func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, startedAt, finishedAt time.Time, summary directory.RefreshSummary, refreshErr error) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Error("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close()

	run := &database.CrawlRun{
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Pages:      summary.Pages,
		Collected:  summary.Collected,
		Persisted:  summary.Persisted,
		Status:     database.StatusOK,
	}
	switch {
	case refreshErr != nil:
		run.Status = database.StatusFailed
		run.ErrorText = refreshErr.Error()
	case summary.Partial:
		run.Status = database.StatusPartial
	}

	if _, err := db.InsertCrawlRun(ctx, run); err != nil {
		logger.Error("failed to record crawl run", "error", err)
	}
}
