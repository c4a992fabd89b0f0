package main

import (
	"fmt"

	"github.com/dialdexdev/dialdex/internal/config"
	"github.com/dialdexdev/dialdex/internal/reputation"
	"github.com/spf13/cobra"
)

// NewCheckURLCmd creates the checkurl command.
func NewCheckURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkurl <url>",
		Short: "Check a URL against the threat-list API",
		Long: `Checkurl asks the configured threat-list API whether a URL is a known
scam or phishing site.

The API endpoint comes from the config file or the --endpoint flag. The
bearer token comes from the ` + config.EnvReputationToken + ` environment
variable (an optional .env file in the working directory is honored) or
the config file.

Examples:
  dialdex checkurl https://totally-legit-prizes.example.com
  dialdex checkurl --endpoint https://threatlist.example.com/v1/lookup https://suspicious.example.net`,
		Args: cobra.ExactArgs(1),
		RunE: runCheckURLCmd,
	}

	cmd.Flags().StringP("endpoint", "e", "",
		"Threat-list API URL (overrides the config file)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .dialdex in current or home directory)")

	return cmd
}

// runCheckURLCmd executes the checkurl command.
func runCheckURLCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return err
	}

	endpoint, err := cmd.Flags().GetString("endpoint")
	if err != nil {
		return err
	}
	if endpoint != "" {
		cfg.ReputationEndpoint = endpoint
	}
	config.LoadReputationToken(cfg)

	logger := setupLogger(cmd)
	client, err := reputation.NewClient(
		cfg.ReputationEndpoint,
		cfg.ReputationToken,
		reputation.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("threat-list client: %w", err)
	}

	flagged, err := client.IsFlagged(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if flagged {
		fmt.Fprintf(cmd.OutOrStdout(), "FLAGGED: %s is on the threat list\n", args[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "clean: %s is not on the threat list\n", args[0])
	}
	return nil
}
