// Package materials describes the conventional on-disk layout of a course:
// a lesson plan, a directory of source PDFs, a bibliography, a reference map
// and an output directory, all under one root.
package materials

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default materials root, relative to the working directory.
	DefaultDirName = "materials"

	LessonPlanFileName   = "lesson_plan.csv"
	SourcesDirName       = "pdfs"
	OutputDirName        = "output"
	OutputFileName       = "textbook.pdf"
	BibliographyFileName = "bibtex.bib"
	ReferencesFileName   = "ref_to_file.yaml"
	ConfigFileName       = "config.yaml"
)

// Dir represents a course materials directory.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (./materials).
func New(path string) *Dir {
	if path == "" {
		path = DefaultDirName
	}
	return &Dir{path: path}
}

// Path returns the root path of the materials directory.
func (d *Dir) Path() string {
	return d.path
}

// LessonPlanPath returns the path to the lesson plan CSV.
func (d *Dir) LessonPlanPath() string {
	return filepath.Join(d.path, LessonPlanFileName)
}

// SourcesDir returns the directory holding the source PDFs.
func (d *Dir) SourcesDir() string {
	return filepath.Join(d.path, SourcesDirName)
}

// OutputDir returns the directory the textbook is written to.
func (d *Dir) OutputDir() string {
	return filepath.Join(d.path, OutputDirName)
}

// OutputPath returns the default path of the assembled textbook.
func (d *Dir) OutputPath() string {
	return filepath.Join(d.OutputDir(), OutputFileName)
}

// BibliographyPath returns the path to the BibTeX file.
func (d *Dir) BibliographyPath() string {
	return filepath.Join(d.path, BibliographyFileName)
}

// ReferencesPath returns the path to the reference map YAML.
func (d *Dir) ReferencesPath() string {
	return filepath.Join(d.path, ReferencesFileName)
}

// ConfigPath returns the path to a project-local config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the root, sources and output directories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.SourcesDir(), d.OutputDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the materials directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// Missing returns the input files and directories that do not exist yet.
func (d *Dir) Missing() []string {
	var missing []string
	for _, p := range []string{d.LessonPlanPath(), d.SourcesDir(), d.BibliographyPath(), d.ReferencesPath()} {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	return missing
}
