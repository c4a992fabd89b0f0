package main

import (
	"fmt"

	"github.com/dialdexdev/dialdex/internal/directory"
	"github.com/dialdexdev/dialdex/internal/model"
	"github.com/dialdexdev/dialdex/internal/store"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <phone>",
		Short: "Look up a contact by phone number in the local store",
		Long: `Search looks up a phone number in the local contact store. It never
touches the network; run "dialdex refresh" first to populate the store.

The query and the stored numbers are both reduced to their digits before
matching, so "+91 98765-43210" and "9876543210" find the same contact.
Partial numbers match by substring.

Examples:
  dialdex search 9876543210
  dialdex search "+91 98765 43210"
  dialdex search 98765`,
		Args: cobra.ExactArgs(1),
		RunE: runSearchCmd,
	}

	cmd.Flags().StringP("store", "s", "",
		"Contact store path (default: the XDG data directory)")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	svc, err := openLocalService(cmd)
	if err != nil {
		return err
	}

	if !svc.HasData() {
		return fmt.Errorf("the contact store is empty; run \"dialdex refresh\" first")
	}

	record, found := svc.Search(args[0])
	if !found {
		fmt.Fprintf(cmd.OutOrStdout(), "No contact found for %q\n", args[0])
		return nil
	}

	printContact(cmd, record)
	return nil
}

// openLocalService builds a directory service over the local store only.
// The offline commands never crawl, so no session is wired in.
func openLocalService(cmd *cobra.Command) (*directory.Service, error) {
	storePath, err := cmd.Flags().GetString("store")
	if err != nil {
		return nil, err
	}

	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return nil, err
	}
	if storePath != "" {
		cfg.StorePath = storePath
	}

	logger := setupLogger(cmd)
	contacts := store.New(cfg.StorePath, store.WithLogger(logger))
	return directory.NewService(nil, contacts, directory.WithLogger(logger)), nil
}

// printContact writes a single contact in the human-readable layout.
func printContact(cmd *cobra.Command, record model.ContactRecord) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:        %s\n", record.Name)
	fmt.Fprintf(out, "Designation: %s\n", record.Designation)
	fmt.Fprintf(out, "Phone:       %s\n", record.Phone)
	if record.IsScammer {
		fmt.Fprintln(out, "Warning:     flagged as scammer")
	}
}
