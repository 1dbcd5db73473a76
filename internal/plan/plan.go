// Package plan turns a raw lesson plan into canonical rows ready for
// textbook assembly.
package plan

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jackzampolin/coursepack/internal/bibliography"
	"github.com/jackzampolin/coursepack/internal/diag"
	"github.com/jackzampolin/coursepack/internal/lesson"
	"github.com/jackzampolin/coursepack/internal/pages"
	"github.com/jackzampolin/coursepack/internal/references"
	"github.com/jackzampolin/coursepack/internal/types"
)

// Request contains the inputs of one processing run.
type Request struct {
	LessonPath string // Lesson plan CSV (required)
	SourceDir  string // Directory of source PDFs, used with ReferencesPath

	// Optional stages. An empty path skips the stage.
	ReferencesPath   string
	BibliographyPath string

	Counter pages.Counter // Page counter for page_end back-filling
	Sink    diag.Sink     // Receives non-fatal diagnostics (optional)
	Logger  *slog.Logger  // Optional logger for progress updates
	Now     time.Time     // Reference time for dates without a year (zero means time.Now)
}

// Process loads the lesson plan and runs every requested stage, in order:
// schema validation and cleaning, page_start defaults, filename resolution
// with page_end back-filling, then bibliography reconciliation and merge.
func Process(req Request) ([]types.CanonicalRow, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}
	sink := req.Sink
	if sink == nil {
		sink = diag.Discard
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	lessons, err := lesson.Load(req.LessonPath, now, sink)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded lesson plan", "path", req.LessonPath, "rows", len(lessons))

	rows := references.Canonical(lessons)

	var refMap references.Map
	if req.ReferencesPath != "" {
		if req.Counter == nil {
			return nil, fmt.Errorf("a page counter is required to resolve references")
		}

		index, err := references.ListPDFs(req.SourceDir)
		if err != nil {
			return nil, err
		}
		refMap, err = references.LoadMap(req.ReferencesPath)
		if err != nil {
			return nil, err
		}
		resolved, err := references.ResolveAll(refMap, index)
		if err != nil {
			return nil, err
		}
		log.Debug("resolved references", "keys", len(resolved), "pdfs", len(index.Names))

		rows = references.AttachFilenames(lessons, resolved)
		rows, err = pages.FillPageEnd(rows, req.SourceDir, req.Counter)
		if err != nil {
			return nil, err
		}
	}
	rows = pages.FillPageStart(rows)

	if req.BibliographyPath != "" {
		entries, err := bibliography.Load(req.BibliographyPath)
		if err != nil {
			return nil, err
		}

		var cites map[string]bibliography.Citation
		if req.ReferencesPath != "" {
			cites = references.ReconcileBibliography(entries, refMap, sink)
		} else {
			cites = references.AllCitations(entries)
		}
		rows, err = references.MergeBibliography(rows, cites)
		if err != nil {
			return nil, err
		}
		log.Debug("merged bibliography", "path", req.BibliographyPath, "citations", len(cites))
	}

	return rows, nil
}
