// Package testutil builds PDF fixtures and sample course materials for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// TestingT is the subset of testing.T the helpers need.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	TempDir() string
}

// WritePDF writes a PDF with the given number of pages to path. Each page
// carries its label and page number so extracted ranges can be told apart.
func WritePDF(t TestingT, path string, pages int) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}

	doc := gofpdf.New("P", "mm", "Letter", "")
	doc.SetFont("Helvetica", "", 14)
	label := filepath.Base(path)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Cell(0, 10, fmt.Sprintf("%s page %d", label, i))
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("failed to write PDF fixture %s: %v", path, err)
	}
	return path
}
