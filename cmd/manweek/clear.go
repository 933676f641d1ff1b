package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all logged time and reset mode usage",
		Long: `Delete every saved time entry and week, and reset mode usage counters.
Projects and mode labels are kept. This cannot be undone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear logged time without --yes")
			}
			return withApp(opts, func(a *app) error {
				stats, err := a.entries.ClearLogged(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d time entries and %d weeks; reset %d modes.\n",
					stats.TimeEntries, stats.Weeks, stats.ModesReset)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting all logged time")

	return cmd
}
