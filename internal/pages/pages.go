// Package pages fills in missing page bounds of lesson plan rows.
//
// Page numbers are 1-indexed and ranges are inclusive: a row with no
// page_start begins at page 1 and a row with no page_end runs to the last
// page of its source PDF.
package pages

import (
	"fmt"
	"path/filepath"

	"github.com/jackzampolin/coursepack/internal/types"
)

// FirstPage is the page an absent page_start defaults to.
const FirstPage = 1

// Counter reports the number of pages in a PDF file.
type Counter interface {
	PageCount(path string) (int, error)
}

// FillPageStart returns a copy of rows with absent page_start set to FirstPage.
func FillPageStart(rows []types.CanonicalRow) []types.CanonicalRow {
	out := types.CloneRows(rows)
	for i := range out {
		if out[i].PageStart == nil {
			out[i].PageStart = types.Float(FirstPage)
		}
	}
	return out
}

// FillPageEnd returns a copy of rows with absent page_end set to the page
// count of the row's source file in dir. Each distinct file is counted once.
// Any failure to count pages is returned.
func FillPageEnd(rows []types.CanonicalRow, dir string, counter Counter) ([]types.CanonicalRow, error) {
	out := types.CloneRows(rows)
	counts := make(map[string]int)

	for i := range out {
		if out[i].PageEnd != nil {
			continue
		}
		name := out[i].Filename
		if name == "" {
			return nil, fmt.Errorf("cannot determine last page for reference %s: no source file is mapped to it", out[i].Reference)
		}

		n, ok := counts[name]
		if !ok {
			var err error
			n, err = counter.PageCount(filepath.Join(dir, name))
			if err != nil {
				return nil, fmt.Errorf("failed to count pages of %s: %w", name, err)
			}
			counts[name] = n
		}
		out[i].PageEnd = types.Float(float64(n))
	}
	return out, nil
}
