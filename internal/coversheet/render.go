package coversheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Renderer typesets cover sheets with gofpdf core fonts.
type Renderer struct {
	PageSize string // gofpdf size name: Letter, A4, Legal (default Letter)
	Font     string // core font family: Helvetica, Times, Courier (default Times)
}

func (r Renderer) pageSize() string {
	if r.PageSize == "" {
		return "Letter"
	}
	return r.PageSize
}

func (r Renderer) font() string {
	if r.Font == "" {
		return "Times"
	}
	return r.Font
}

// Render writes s as a one or more page PDF to w.
func (r Renderer) Render(s Sheet, w io.Writer) error {
	doc := gofpdf.New("P", "mm", r.pageSize(), "")
	// Core fonts are cp1252; the translator maps UTF-8 text onto it.
	tr := doc.UnicodeTranslatorFromDescriptor("")
	font := r.font()

	doc.SetTitle(s.Title, true)
	doc.SetMargins(25, 25, 25)
	doc.SetAutoPageBreak(true, 25)
	doc.AddPage()

	doc.SetFont(font, "B", 20)
	doc.MultiCell(0, 10, tr(s.Title), "", "C", false)
	if s.Date != "" {
		doc.SetFont(font, "", 13)
		doc.CellFormat(0, 8, tr(s.Date), "", 1, "C", false, 0, "")
	}
	doc.Ln(10)

	doc.SetFont(font, "B", 15)
	doc.CellFormat(0, 8, "Reading Materials", "", 1, "L", false, 0, "")
	doc.Ln(2)
	doc.SetFont(font, "", 12)
	for i, item := range s.Items {
		doc.Write(6, tr(fmt.Sprintf("%d. %s", i+1, item.Text)))
		if item.URL != "" {
			doc.Write(6, " ")
			doc.SetTextColor(0, 0, 180)
			doc.WriteLinkString(6, "Available here", item.URL)
			doc.SetTextColor(0, 0, 0)
		}
		doc.Ln(8)
	}

	if len(s.References) > 0 {
		doc.Ln(6)
		doc.SetFont(font, "B", 15)
		doc.CellFormat(0, 8, "References", "", 1, "L", false, 0, "")
		doc.Ln(2)
		doc.SetFont(font, "", 11)
		for _, ref := range s.References {
			doc.MultiCell(0, 5.5, tr(ref), "", "L", false)
			doc.Ln(2)
		}
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render cover sheet for week %d: %w", s.Week, err)
	}
	return nil
}

// RenderFile writes s to path as a PDF, creating parent directories.
func (r Renderer) RenderFile(s Sheet, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cover sheet directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cover sheet file: %w", err)
	}
	if err := r.Render(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Validate reports unsupported page sizes and fonts.
func (r Renderer) Validate() error {
	switch strings.ToLower(r.pageSize()) {
	case "letter", "a4", "a5", "legal", "a3", "tabloid":
	default:
		return fmt.Errorf("unsupported page size %q", r.PageSize)
	}
	switch strings.ToLower(r.font()) {
	case "times", "helvetica", "arial", "courier":
	default:
		return fmt.Errorf("unsupported font %q", r.Font)
	}
	return nil
}
