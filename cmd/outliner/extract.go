package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/outliner"
	"github.com/tsawler/outliner/export"
	"github.com/tsawler/outliner/reader"
)

var (
	extractFormat  string
	extractVerbose bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the outline of one document",
	Long: `Print the title and outline of a single PDF or stext JSON document to stdout.

With --verbose the estimated body size, the font size to level map and the
title blocks are logged to stderr.

Examples:
  outliner extract report.pdf
  outliner extract report.pdf --format markdown
  outliner extract report.stext.json --format yaml --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		_, cfg, err := loadConfig(cmd, map[string]string{"renderer": "renderer"})
		if err != nil {
			return err
		}
		logger := stderrLogger(cfg)

		f := cfg.OutputFormat
		if extractFormat != "" {
			f = extractFormat
		}
		outFormat, err := export.ParseFormat(f)
		if err != nil {
			return err
		}

		renderer, err := reader.New(cfg.Renderer, cfg.RendererOptions())
		if err != nil {
			return err
		}

		analysis, warnings, err := outliner.Open(args[0]).
			Renderer(renderer).
			Config(cfg.LayoutConfig()).
			Context(ctx).
			Analysis()
		if err != nil {
			return err
		}

		for _, w := range warnings {
			logger.Warn(w.Message, "code", string(w.Code))
		}

		if extractVerbose {
			levels := make([]string, 0, len(analysis.Levels))
			for _, size := range analysis.Levels.Sizes() {
				levels = append(levels, fmt.Sprintf("%d=%s", size, analysis.Levels.Level(size)))
			}
			logger.Info("analysis",
				"file", args[0],
				"pages", analysis.Stats.PageCount,
				"blocks", analysis.Stats.BlockCount,
				"body_size", analysis.BodySize,
				"levels", levels,
				"title_blocks", len(analysis.TitleBlocks),
				"raw_headings", len(analysis.RawHeadings),
				"headings", len(analysis.Record.Outline))
		}

		return export.Write(cmd.OutOrStdout(), outFormat, analysis.Record)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "", "output format: json, yaml, markdown or html")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "log body size and level map")
	extractCmd.Flags().String("renderer", "", "PDF renderer: native or mutool")

	rootCmd.AddCommand(extractCmd)
}
