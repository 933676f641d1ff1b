package main

import (
	"github.com/rpggio/manweek/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "manweek",
		Short: "Track where working time goes, by mode and project",
		Long: `manweek attributes wall-clock time to an activity mode and an optional project.
Idle time, sleep gaps and a daily cap are handled automatically; "serve" runs the
tracker behind an MCP server on stdio.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $MANWEEK_CONFIG_PATH)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newTodayCmd(opts),
		newModesCmd(opts),
		newProjectsCmd(opts),
		newClearCmd(opts),
	)

	return rootCmd
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load()
}
