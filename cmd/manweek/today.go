package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rpggio/manweek/internal/domain/entry"
	"github.com/rpggio/manweek/internal/domain/mode"
	"github.com/spf13/cobra"
)

func newTodayCmd(opts *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the time entries of a day",
		Long: `Show the saved time entries of a day with the work total.
Replaced entries are dimmed and excluded from the total, as is time booked to Idle.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd.Context(), cmd.OutOrStdout(), opts, date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show as YYYY-MM-DD (default today)")

	return cmd
}

func runToday(ctx context.Context, out io.Writer, opts *rootOptions, date string) error {
	day := time.Now()
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: use YYYY-MM-DD", date)
		}
		day = parsed
	}

	return withApp(opts, func(a *app) error {
		return printDay(ctx, out, a, day)
	})
}

func printDay(ctx context.Context, out io.Writer, a *app, day time.Time) error {
	entries, err := a.entries.ListForDate(ctx, day)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(out, "No time recorded on %s.\n", entry.DateKey(day))
		return nil
	}

	labels, err := projectLabels(ctx, a)
	if err != nil {
		return err
	}

	var work int64
	rows := make([][]string, 0, len(entries))
	muted := map[int]bool{}
	for i, e := range entries {
		project := ""
		if e.ProjectID != nil {
			project = labels[*e.ProjectID]
			if project == "" {
				project = "#" + strconv.FormatInt(*e.ProjectID, 10)
			}
		}
		if e.ReplacedBy != nil {
			muted[i] = true
		} else if !mode.IsIdle(e.ModeLabel) {
			work += e.WorkSeconds()
		}
		rows = append(rows, []string{
			e.StartedAt.Local().Format("15:04"),
			e.EndedAt.Local().Format("15:04"),
			e.ModeLabel,
			project,
			formatSeconds(e.ActiveSeconds),
			formatSeconds(e.IdleSeconds),
			formatSeconds(e.ManualSeconds),
			string(e.Source),
			e.Description,
		})
	}

	fmt.Fprintf(out, "%s\n", entry.DateKey(day))
	renderTable(out, []string{"Start", "End", "Mode", "Project", "Active", "Idle", "Manual", "Source", "Description"}, rows, muted)
	fmt.Fprintln(out, totalStyle.Render("Work: "+formatSeconds(work)))
	return nil
}

func projectLabels(ctx context.Context, a *app) (map[int64]string, error) {
	projects, err := a.projects.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	labels := make(map[int64]string, len(projects))
	for _, p := range projects {
		labels[p.ID] = p.Label()
	}
	return labels, nil
}
