// Package textbook assembles the final PDF: for every week, in order, a
// cover sheet followed by the assigned page ranges of each source PDF.
package textbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/jackzampolin/coursepack/internal/coversheet"
	"github.com/jackzampolin/coursepack/internal/diag"
	"github.com/jackzampolin/coursepack/internal/pages"
	"github.com/jackzampolin/coursepack/internal/types"
)

// ErrNoRows is returned when there is nothing to assemble.
var ErrNoRows = errors.New("lesson plan has no rows to assemble")

// Typesetter renders a cover sheet to a PDF file.
type Typesetter interface {
	RenderFile(s coversheet.Sheet, path string) error
}

// PDF is the set of PDF operations assembly needs.
type PDF interface {
	pages.Counter
	ExtractRange(src string, from, to int, dst string) error
	Merge(inputs []string, output string) error
}

// Result describes a finished textbook.
type Result struct {
	BuildID string `json:"build_id" yaml:"build_id"`
	Output  string `json:"output" yaml:"output"`
	Weeks   int    `json:"weeks" yaml:"weeks"`
	Parts   int    `json:"parts" yaml:"parts"`
	Pages   int    `json:"pages" yaml:"pages"`
	Skipped int    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Builder assembles a textbook from canonical rows.
type Builder struct {
	rows       []types.CanonicalRow
	sourceDir  string
	typesetter Typesetter
	pdf        PDF

	TitleFormat string       // Cover sheet title format (optional)
	WorkDir     string       // Parent of the temporary workspace (optional)
	Sink        diag.Sink    // Receives skipped-row warnings (optional)
	Logger      *slog.Logger // Optional logger for progress updates
}

// NewBuilder creates a builder for rows whose filenames live in sourceDir.
func NewBuilder(rows []types.CanonicalRow, sourceDir string, typesetter Typesetter, pdf PDF) *Builder {
	return &Builder{
		rows:       types.CloneRows(rows),
		sourceDir:  sourceDir,
		typesetter: typesetter,
		pdf:        pdf,
	}
}

// Build assembles the textbook and writes it to outputPath. Nothing is
// written to outputPath unless every part was produced.
func (b *Builder) Build(ctx context.Context, outputPath string) (*Result, error) {
	log := b.Logger
	if log == nil {
		log = slog.Default()
	}
	sink := b.Sink
	if sink == nil {
		sink = diag.Discard
	}

	if len(b.rows) == 0 {
		return nil, ErrNoRows
	}

	result := &Result{BuildID: uuid.New().String(), Output: outputPath}
	log = log.With("build_id", result.BuildID)

	workspace, err := os.MkdirTemp(b.WorkDir, "coursepack-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer os.RemoveAll(workspace)

	weeks := GroupByWeek(b.rows)
	counts := make(map[string]int)
	var parts []string
	for _, w := range weeks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cover := filepath.Join(workspace, fmt.Sprintf("week_%d_coversheet.pdf", w.Number))
		sheet := coversheet.NewSheetWithTitle(w, b.TitleFormat)
		if err := b.typesetter.RenderFile(sheet, cover); err != nil {
			return nil, fmt.Errorf("failed to render cover sheet for week %d: %w", w.Number, err)
		}
		parts = append(parts, cover)

		for i, r := range w.Rows {
			if r.Filename == "" {
				sink.Warn(diag.Event{
					Kind:    diag.RowSkipped,
					Message: fmt.Sprintf("week %d: reference %s has no source file and was left out of the textbook", w.Number, r.Reference),
					Keys:    []string{r.Reference},
				})
				result.Skipped++
				continue
			}

			part := filepath.Join(workspace, fmt.Sprintf("week_%d_part_%03d.pdf", w.Number, i+1))
			from, to, err := b.pageRange(r, counts)
			if err != nil {
				return nil, err
			}
			if err := b.pdf.ExtractRange(filepath.Join(b.sourceDir, r.Filename), from, to, part); err != nil {
				return nil, fmt.Errorf("week %d: %w", w.Number, err)
			}
			log.Debug("extracted pages", "week", w.Number, "file", r.Filename, "from", from, "to", to)
			parts = append(parts, part)
		}
		log.Info("assembled week", "week", w.Number, "readings", len(w.Rows))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	merged := filepath.Join(workspace, "textbook.pdf")
	if err := b.pdf.Merge(parts, merged); err != nil {
		return nil, err
	}
	if err := moveFile(merged, outputPath); err != nil {
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}

	result.Weeks = len(weeks)
	result.Parts = len(parts)
	if n, err := b.pdf.PageCount(outputPath); err != nil {
		log.Warn("failed to count textbook pages", "output", outputPath, "error", err)
	} else {
		result.Pages = n
	}
	log.Info("textbook written", "output", outputPath, "weeks", result.Weeks, "pages", result.Pages)
	return result, nil
}

// pageRange returns the row's inclusive 1-indexed page range, clamped to
// the pages its source file actually has. counts caches page counts by
// filename.
func (b *Builder) pageRange(r types.CanonicalRow, counts map[string]int) (int, int, error) {
	total, ok := counts[r.Filename]
	if !ok {
		var err error
		total, err = b.pdf.PageCount(filepath.Join(b.sourceDir, r.Filename))
		if err != nil {
			return 0, 0, err
		}
		counts[r.Filename] = total
	}

	// Compare as floats first so out-of-range values never reach an int
	// conversion.
	start, end := float64(pages.FirstPage), float64(total)
	if r.PageStart != nil {
		start = max(*r.PageStart, start)
	}
	if r.PageEnd != nil {
		end = min(*r.PageEnd, end)
	}
	if !(start <= end) || end < float64(pages.FirstPage) {
		return 0, 0, fmt.Errorf("reference %s: page range %s-%s is outside the %d pages of %s",
			r.Reference, formatPage(r.PageStart, pages.FirstPage), formatPage(r.PageEnd, total), total, r.Filename)
	}
	return int(start), int(end), nil
}

func formatPage(v *float64, fallback int) string {
	if v == nil {
		return strconv.Itoa(fallback)
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// moveFile renames src to dst, copying when they are on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	return copyFile(src, dst)
}

// copyFile copies src into a temp file next to dst and renames it into
// place. dst is never left partially written.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if _, err := io.Copy(tmp, in); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
