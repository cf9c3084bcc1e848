package main

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/outliner/internal/config"
	"github.com/tsawler/outliner/layout"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Convert the input directory, then keep converting new documents",
	Long: `Convert every document in the input directory, then watch it and convert
documents as they are created or rewritten, until interrupted.

Edits to the heuristics section of the config file apply to documents
processed after the edit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, cfg, err := loadConfig(cmd, runFlags)
		if err != nil {
			return err
		}
		logger := stderrLogger(cfg)

		runner, cleanup, err := newRunner(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		if mgr.ConfigFile() != "" {
			mgr.OnChange(func(c *config.Config) {
				runner.UseAnalyzer(layout.NewAnalyzerWithConfig(c.LayoutConfig()))
				logger.Info("configuration reloaded", "file", mgr.ConfigFile())
			})
			mgr.WatchConfig()
		}

		if _, err := runner.Run(ctx); err != nil {
			return err
		}

		return runner.Watch(ctx, nil)
	},
}

func init() {
	addRunFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
