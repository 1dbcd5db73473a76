package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/coursepack/internal/config"
	"github.com/jackzampolin/coursepack/internal/coversheet"
	"github.com/jackzampolin/coursepack/internal/diag"
	"github.com/jackzampolin/coursepack/internal/plan"
	"github.com/jackzampolin/coursepack/internal/textbook"
)

var checkInputs inputFlags

// checkReport is what check prints: the effective inputs, the cover sheet
// of every week and the warnings a build would log.
type checkReport struct {
	Paths       config.PathsCfg    `json:"paths" yaml:"paths"`
	Missing     []string           `json:"missing,omitempty" yaml:"missing,omitempty"`
	Rows        int                `json:"rows" yaml:"rows"`
	Weeks       []coversheet.Sheet `json:"weeks,omitempty" yaml:"weeks,omitempty"`
	Diagnostics []diag.Event       `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the inputs without writing a textbook",
	Long: `Check runs every processing stage of a build (lesson plan validation,
reference resolution, page back-filling and bibliography reconciliation)
and prints the cover sheets the build would produce. No PDF is written.`,
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

		report := checkReport{Paths: checkInputs.resolve(cmd, cfg)}
		report.Missing = missingInputs(report.Paths)
		if len(report.Missing) > 0 {
			if err := p.Print(report); err != nil {
				return err
			}
			return fmt.Errorf("missing inputs: %s", strings.Join(report.Missing, ", "))
		}

		var rec diag.Recorder
		rows, err := plan.Process(plan.Request{
			LessonPath:       report.Paths.LessonPlan,
			SourceDir:        report.Paths.Sources,
			ReferencesPath:   report.Paths.References,
			BibliographyPath: report.Paths.Bibliography,
			Counter:          checkInputs.processor(),
			Sink:             diag.Tee(&rec, diag.NewLogSink(logger)),
			Logger:           logger,
		})
		if err != nil {
			return err
		}

		report.Rows = len(rows)
		for _, w := range textbook.GroupByWeek(rows) {
			report.Weeks = append(report.Weeks, coversheet.NewSheetWithTitle(w, cfg.Cover.TitleFormat))
		}
		report.Diagnostics = rec.Events()
		return p.Print(report)
	},
}

func init() {
	checkInputs.register(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

// missingInputs lists the configured inputs that do not exist. Skipped
// stages (empty paths) are not inputs, and sources are only read when
// references are resolved.
func missingInputs(paths config.PathsCfg) []string {
	inputs := []string{paths.LessonPlan, paths.Bibliography, paths.References}
	if paths.References != "" {
		inputs = append(inputs, paths.Sources)
	}

	var missing []string
	for _, p := range inputs {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	return missing
}
