package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/manweek/internal/domain/project"
	"github.com/spf13/cobra"
)

func newProjectsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Short:   "List projects that are not archived",
		Aliases: []string{"project"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				projects, err := a.projects.ListActive(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(projects) == 0 {
					fmt.Fprintln(out, "No projects. Add one with: manweek projects add <code> [name]")
					return nil
				}
				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Code, p.Name})
				}
				renderTable(out, []string{"ID", "Code", "Name"}, rows, nil)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <code> [name]",
		Short: "Create a project or rename the one with the same code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				p, err := a.projects.Upsert(cmd.Context(), project.UpsertRequest{
					Code: args[0],
					Name: strings.Join(args[1:], " "),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved project %d: %s\n", p.ID, p.Label())
				return nil
			})
		},
	})
	cmd.AddCommand(newArchiveCmd(opts, "archive", true))
	cmd.AddCommand(newArchiveCmd(opts, "restore", false))

	return cmd
}

func newArchiveCmd(opts *rootOptions, use string, archived bool) *cobra.Command {
	short := "Hide a project from pickers"
	if !archived {
		short = "Restore an archived project"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}
			return withApp(opts, func(a *app) error {
				if err := a.projects.SetArchived(cmd.Context(), id, archived); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Project %d %sd.\n", id, use)
				return nil
			})
		},
	}
}
