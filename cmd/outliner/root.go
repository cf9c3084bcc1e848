package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/outliner/batch"
	"github.com/tsawler/outliner/export"
	"github.com/tsawler/outliner/internal/config"
	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/reader"
	"github.com/tsawler/outliner/store"
	"github.com/tsawler/outliner/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "outliner",
	Short: "Infer document titles and heading outlines from typography",
	Long: `Outliner reads rendered documents and infers a title and a hierarchical
outline (H1-H4 headings with page numbers) purely from font sizes and
positions.

Inputs are PDF files, rendered either in pure Go or with MuPDF's mutool,
or stext JSON files produced by "mutool draw -F stext.json".`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./outliner.yaml or ~/.outliner/outliner.yaml)",
	)

	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the config manager, binding any flags of cmd whose names
// are listed in bindings (flag name -> config key).
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Manager, *config.Config, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	v := mgr.Viper()
	for flag, key := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	cfg, err := mgr.Reload()
	if err != nil {
		return nil, nil, err
	}
	return mgr, cfg, nil
}

// newRunner wires a batch runner from configuration. The returned cleanup
// closes the store, if one was opened.
func newRunner(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*batch.Runner, func(), error) {
	renderer, err := reader.New(cfg.Renderer, cfg.RendererOptions())
	if err != nil {
		return nil, nil, err
	}

	outFormat, err := export.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, nil, err
	}

	runner := &batch.Runner{
		Config: batch.Config{
			InputDir:     cfg.InputDir,
			OutputDir:    cfg.OutputDir,
			Workers:      cfg.Workers,
			Timeout:      cfg.Timeout,
			Format:       outFormat,
			Validate:     cfg.ValidateOutput,
			UseCache:     cfg.Database.Cache,
			RendererName: cfg.Renderer,
		},
		Renderer: renderer,
		Analyzer: layout.NewAnalyzerWithConfig(cfg.LayoutConfig()),
		Logger:   logger,
	}

	cleanup := func() {}
	if cfg.Database.DSN != "" {
		s, err := store.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, nil, err
		}
		runner.Store = s
		cleanup = func() { s.Close() }
		logger.Info("record store enabled", "cache", cfg.Database.Cache)
	}

	return runner, cleanup, nil
}

// runFlags are shared by run and watch
var runFlags = map[string]string{
	"input":    "input_dir",
	"output":   "output_dir",
	"renderer": "renderer",
	"workers":  "workers",
	"timeout":  "timeout",
	"format":   "output_format",
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "input directory (default from config: /app/input)")
	cmd.Flags().String("output", "", "output directory (default from config: /app/output)")
	cmd.Flags().String("renderer", "", "PDF renderer: native or mutool")
	cmd.Flags().Int("workers", 0, "documents processed in parallel")
	cmd.Flags().Duration("timeout", 0, "per-document render timeout")
	cmd.Flags().String("format", "", "output format: json, yaml, markdown or html")
}

func stderrLogger(cfg *config.Config) *slog.Logger {
	return cfg.Logger(os.Stderr)
}
