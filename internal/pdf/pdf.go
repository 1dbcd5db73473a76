// Package pdf reads, slices and merges PDF files with pdfcpu.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Processor performs PDF operations on files. The zero value is ready to use.
type Processor struct {
	// Strict enables pdfcpu's strict validation. Source PDFs from scanners
	// and course readers are rarely conformant PDFs, so it is off by default.
	Strict bool
}

func (p Processor) config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	if p.Strict {
		conf.ValidationMode = model.ValidationStrict
	} else {
		conf.ValidationMode = model.ValidationRelaxed
	}
	return conf
}

// PageCount returns the number of pages in the PDF at path.
func (p Processor) PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	n, err := api.PageCount(f, p.config())
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return n, nil
}

// ExtractRange writes pages from..to (1-indexed, inclusive) of src to dst.
func (p Processor) ExtractRange(src string, from, to int, dst string) error {
	if from < 1 || to < from {
		return fmt.Errorf("invalid page range %d-%d for %s", from, to, src)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open PDF %s: %w", src, err)
	}
	defer in.Close()

	ctx, err := api.ReadContext(in, p.config())
	if err != nil {
		return fmt.Errorf("failed to read PDF context for %s: %w", src, err)
	}
	if to > ctx.PageCount {
		return fmt.Errorf("page range %d-%d exceeds %d pages in %s", from, to, ctx.PageCount, src)
	}

	pages := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		pages = append(pages, i)
	}
	extracted, err := pdfcpu.ExtractPages(ctx, pages, false)
	if err != nil {
		return fmt.Errorf("failed to extract pages %d-%d from %s: %w", from, to, src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if err := api.WriteContext(extracted, out); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return out.Close()
}

// Merge concatenates inputs, in order, into output.
func (p Processor) Merge(inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no PDF files to merge")
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := api.MergeCreateFile(inputs, output, false, p.config()); err != nil {
		return fmt.Errorf("failed to merge %d files into %s: %w", len(inputs), output, err)
	}
	return nil
}
