package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/coursepack/internal/config"
	"github.com/jackzampolin/coursepack/internal/coversheet"
	"github.com/jackzampolin/coursepack/internal/diag"
	"github.com/jackzampolin/coursepack/internal/pdf"
	"github.com/jackzampolin/coursepack/internal/plan"
	"github.com/jackzampolin/coursepack/internal/textbook"
)

var buildInputs inputFlags

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble the textbook PDF",
	Long: `Build validates the lesson plan, resolves every reference to a source PDF,
attaches bibliography entries and writes the textbook: one cover sheet per
week followed by that week's assigned pages.

Warnings (unused columns, references without bibliography entries, rows
without a source file) are logged and do not stop the build.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		p, err := printer(cmd)
		if err != nil {
			return err
		}

		res, err := build(cmd.Context(), buildInputs.resolve(cmd, cfg), cfg.Cover, buildInputs.processor(), logger)
		if err != nil {
			return err
		}
		return p.Print(res)
	},
}

func init() {
	buildInputs.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

// build runs the whole pipeline once.
func build(ctx context.Context, paths config.PathsCfg, cover config.CoverCfg, processor pdf.Processor, logger *slog.Logger) (*textbook.Result, error) {
	renderer := coversheet.Renderer{PageSize: cover.PageSize, Font: cover.Font}
	if err := renderer.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cover sheet settings: %w", err)
	}

	sink := diag.NewLogSink(logger)

	rows, err := plan.Process(plan.Request{
		LessonPath:       paths.LessonPlan,
		SourceDir:        paths.Sources,
		ReferencesPath:   paths.References,
		BibliographyPath: paths.Bibliography,
		Counter:          processor,
		Sink:             sink,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}

	b := textbook.NewBuilder(rows, paths.Sources, renderer, processor)
	b.TitleFormat = cover.TitleFormat
	b.Sink = sink
	b.Logger = logger
	return b.Build(ctx, paths.Output)
}
