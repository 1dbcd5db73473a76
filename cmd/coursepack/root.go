package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/coursepack/internal/config"
	"github.com/jackzampolin/coursepack/internal/output"
	"github.com/jackzampolin/coursepack/version"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "coursepack",
	Short: "Assemble a course textbook PDF from a lesson plan",
	Long: `Coursepack assembles a single textbook PDF from a lesson plan spreadsheet,
a directory of source PDFs, a BibTeX bibliography and a reference map.

For every week of the lesson plan, in order, the textbook contains:
  - a cover sheet listing the week's readings and their citations
  - the assigned page ranges of each source PDF

Inputs default to the conventional layout under ./materials:
  materials/lesson_plan.csv   week, date, topic, reference, chapter, page_start, page_end
  materials/pdfs/             source PDFs
  materials/bibtex.bib        one entry per reference
  materials/ref_to_file.yaml  reference key to PDF filename ("prefix..." for partial names)`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml, ./materials/config.yaml or ~/.coursepack/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "format", "f", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (default from config)",
	)

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration selected by --config.
func loadConfig() (*config.Manager, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return mgr, nil
}

// newLogger builds the stderr logger. --log-level wins over the config.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// printer writes structured results to the command's stdout.
func printer(cmd *cobra.Command) (output.Printer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return output.Printer{}, err
	}
	return output.Printer{Out: cmd.OutOrStdout(), Format: format}, nil
}
