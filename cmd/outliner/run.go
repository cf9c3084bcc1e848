package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Convert every document in the input directory",
	Long: `Convert every PDF and stext JSON document in the input directory into an
outline file in the output directory, one <name>.json per input.

A document that fails is logged and counted; the rest of the batch still
runs. The exit status is 1 when any document failed.

Examples:
  outliner run
  outliner run --input ./pdfs --output ./outlines
  outliner run --renderer mutool --workers 8`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		_, cfg, err := loadConfig(cmd, runFlags)
		if err != nil {
			return err
		}
		logger := stderrLogger(cfg)

		runner, cleanup, err := newRunner(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		summary, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d documents failed", summary.Failed, summary.Total())
		}
		return nil
	},
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
