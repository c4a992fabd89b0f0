// Package main provides the entry point for the dialdex CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dialdexdev/dialdex/internal/config"
	"github.com/dialdexdev/dialdex/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for dialdex.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dialdex",
		Short: "Local contact directory built from a paginated directory site",
		Long: `Dialdex crawls a postback-driven contact directory site page by page,
stores the collected contacts in a local JSON file, and answers phone
number lookups against that file.

Only the refresh and checkurl commands touch the network; search, flag,
export, and history work entirely from local data.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewRefreshCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewFlagCmd())
	cmd.AddCommand(NewCheckURLCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a masking structured logger based on verbosity.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	return log.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
}

// loadBaseConfig builds a Config from defaults and the optional YAML
// configuration file. Commands overlay their own flags afterwards, so
// flag values always win over file values.
//
// If the user explicitly passed --config and the file does not exist,
// that is an error; an absent default config file is not.
func loadBaseConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath := ""
	if f := cmd.Flags().Lookup("config"); f != nil {
		configPath = f.Value.String()
	}

	found := config.FindConfigFile(configPath)
	if found == "" {
		if configPath != "" {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return cfg, nil
	}

	cf, err := config.LoadConfigFile(found)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
	}
	cf.Apply(cfg)

	return cfg, nil
}
