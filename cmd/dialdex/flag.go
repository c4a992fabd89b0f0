package main

import (
	"fmt"

	"github.com/dialdexdev/dialdex/internal/model"
	"github.com/spf13/cobra"
)

// NewFlagCmd creates the flag command.
func NewFlagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flag <phone>",
		Short: "Mark a phone number as a scammer in the local store",
		Long: `Flag marks a phone number as a known scammer. If the number already
exists in the local store, the existing contact is updated in place; the
scammer mark is sticky and survives later refreshes of the same number.
If the number is unknown, a new record is created, optionally with a name
and designation.

Examples:
  dialdex flag 9876543210
  dialdex flag 9876543210 --name "Fake Inspector" --designation "unknown"`,
		Args: cobra.ExactArgs(1),
		RunE: runFlagCmd,
	}

	cmd.Flags().StringP("name", "n", "", "Contact name for a newly created record")
	cmd.Flags().StringP("designation", "d", "", "Designation for a newly created record")
	cmd.Flags().StringP("store", "s", "",
		"Contact store path (default: the XDG data directory)")

	return cmd
}

// runFlagCmd executes the flag command.
func runFlagCmd(cmd *cobra.Command, args []string) error {
	svc, err := openLocalService(cmd)
	if err != nil {
		return err
	}

	phone := args[0]
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	designation, err := cmd.Flags().GetString("designation")
	if err != nil {
		return err
	}

	// Start from the stored record when the number is already known so a
	// flag without --name keeps the crawled name. A partial query flags
	// the matched record's full number, not the fragment.
	target := phone
	known, found := svc.Search(phone)
	if !found {
		known = model.ContactRecord{Name: name, Designation: designation}
	} else {
		target = known.Phone
		if name != "" {
			known.Name = name
		}
		if designation != "" {
			known.Designation = designation
		}
	}

	if err := svc.FlagAsScammer(target, known); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Flagged %s as scammer\n", target)
	return nil
}
