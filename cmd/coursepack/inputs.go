package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/coursepack/internal/config"
	"github.com/jackzampolin/coursepack/internal/materials"
	"github.com/jackzampolin/coursepack/internal/pdf"
)

// inputFlags are the path flags shared by build, check and watch.
// Precedence: explicit path flag, then --materials, then config.
type inputFlags struct {
	materials    string
	lessonPlan   string
	sources      string
	output       string
	bibliography string
	references   string
	strict       bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.materials, "materials", "m", "", "materials directory using the conventional layout")
	flags.StringVarP(&f.lessonPlan, "lesson-plan", "l", "", "lesson plan CSV")
	flags.StringVarP(&f.sources, "sources", "s", "", "directory of source PDFs")
	flags.StringVarP(&f.output, "out", "o", "", "output textbook PDF")
	flags.StringVarP(&f.bibliography, "bibliography", "b", "", `BibTeX file ("" skips citations)`)
	flags.StringVarP(&f.references, "references", "r", "", `reference map YAML ("" skips file resolution)`)
	flags.BoolVar(&f.strict, "strict", false, "reject source PDFs that fail strict validation")
}

func (f *inputFlags) processor() pdf.Processor {
	return pdf.Processor{Strict: f.strict}
}

// resolve returns the effective paths for cmd.
func (f *inputFlags) resolve(cmd *cobra.Command, cfg *config.Config) config.PathsCfg {
	paths := cfg.Paths
	if f.materials != "" {
		paths = config.PathsFor(materials.New(f.materials))
	}

	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"lesson-plan":  &paths.LessonPlan,
		"sources":      &paths.Sources,
		"out":          &paths.Output,
		"bibliography": &paths.Bibliography,
		"references":   &paths.References,
	} {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			*dst = config.ResolveEnvVars(v)
		}
	}
	return paths
}
