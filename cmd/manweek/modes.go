package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newModesCmd(opts *rootOptions) *cobra.Command {
	var cloud int

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List modes with usage and total active time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModes(cmd.Context(), cmd.OutOrStdout(), opts, cloud)
		},
	}

	cmd.Flags().IntVar(&cloud, "cloud", 0, "Print only the N most used labels")

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a mode; saved entries keep their label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid mode id %q", args[0])
			}
			return withApp(opts, func(a *app) error {
				if err := a.modes.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted mode %d.\n", id)
				return nil
			})
		},
	})

	return cmd
}

func runModes(ctx context.Context, out io.Writer, opts *rootOptions, cloud int) error {
	return withApp(opts, func(a *app) error {
		if cloud > 0 {
			labels, err := a.modes.TagCloud(ctx, cloud)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.Join(labels, "  "))
			return nil
		}

		modes, err := a.modes.List(ctx)
		if err != nil {
			return err
		}
		if len(modes) == 0 {
			fmt.Fprintln(out, "No modes yet. Start tracking to create one.")
			return nil
		}
		totals, err := a.entries.ModeDistribution(ctx, 0)
		if err != nil {
			return err
		}
		active := make(map[string]int64, len(totals))
		for _, t := range totals {
			active[strings.ToLower(t.Mode)] += t.ActiveSeconds
		}

		rows := make([][]string, 0, len(modes))
		for _, m := range modes {
			lastUsed := "never"
			if m.LastUsedAt != nil {
				lastUsed = m.LastUsedAt.Local().Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{
				strconv.FormatInt(m.ID, 10),
				m.Label,
				strconv.FormatInt(m.UsageCount, 10),
				lastUsed,
				formatSeconds(active[strings.ToLower(m.Label)]),
			})
		}
		renderTable(out, []string{"ID", "Mode", "Uses", "Last used", "Active"}, rows, nil)
		return nil
	})
}

// withApp loads config, opens the database and runs fn against it.
func withApp(opts *rootOptions, fn func(a *app) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog := newLogger(cfg.Log)
	defer closeLog()

	a, err := openApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
