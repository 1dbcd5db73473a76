// Package coversheet builds and typesets the cover sheet that opens each
// week of the textbook.
package coversheet

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jackzampolin/coursepack/internal/bibliography"
	"github.com/jackzampolin/coursepack/internal/types"
)

// DefaultTitleFormat is the cover sheet title; the verb is the week number.
const DefaultTitleFormat = "Readings for Week %d"

// DateFormat renders the week date, e.g. "Monday, September 11, 2023".
const DateFormat = "Monday, January 2, 2006"

// Item is one entry in the reading list.
type Item struct {
	Text string `json:"text" yaml:"text"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Sheet is the content of one week's cover sheet.
type Sheet struct {
	Week       int      `json:"week" yaml:"week"`
	Title      string   `json:"title" yaml:"title"`
	Date       string   `json:"date" yaml:"date"`
	Items      []Item   `json:"items" yaml:"items"`
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
}

// NewSheet builds the cover sheet of a week with DefaultTitleFormat.
func NewSheet(w types.Week) Sheet {
	return NewSheetWithTitle(w, DefaultTitleFormat)
}

// NewSheetWithTitle builds the cover sheet of a week. titleFormat receives
// the week number; the week topic, when present, is appended after a colon.
func NewSheetWithTitle(w types.Week, titleFormat string) Sheet {
	if titleFormat == "" {
		titleFormat = DefaultTitleFormat
	}
	title := fmt.Sprintf(titleFormat, w.Number)
	if topic := strings.TrimSpace(w.Topic); topic != "" {
		title += ": " + topic
	}

	s := Sheet{
		Week:  w.Number,
		Title: title,
		Items: make([]Item, 0, len(w.Rows)),
	}
	if !w.Date.IsZero() {
		s.Date = w.Date.Format(DateFormat)
	}

	cited := make(map[string]bool)
	for _, r := range w.Rows {
		s.Items = append(s.Items, Item{Text: ItemText(r), URL: r.Field("url")})

		if len(r.Fields) == 0 || cited[r.Reference] {
			continue
		}
		cited[r.Reference] = true
		s.References = append(s.References, bibliography.Cite(bibliography.Citation{Type: r.EntryType, Fields: r.Fields}))
	}
	return s
}

// ItemText describes a reading: "Title, Chapter 2, Pages 3 - 5."
// Rows without a bibliography title fall back to their reference key.
func ItemText(r types.CanonicalRow) string {
	title := r.Field("title")
	if title == "" {
		title = r.Reference
	} else {
		title = cases.Title(language.English).String(title)
	}

	parts := []string{title}
	if r.Chapter != nil {
		parts = append(parts, fmt.Sprintf("Chapter %d", pageNumber(*r.Chapter)))
	}
	switch {
	case r.PageStart != nil && r.PageEnd != nil:
		parts = append(parts, fmt.Sprintf("Pages %d - %d", pageNumber(*r.PageStart), pageNumber(*r.PageEnd)))
	case r.PageStart != nil:
		parts = append(parts, fmt.Sprintf("From page %d", pageNumber(*r.PageStart)))
	case r.PageEnd != nil:
		parts = append(parts, fmt.Sprintf("Through page %d", pageNumber(*r.PageEnd)))
	}
	return strings.Join(parts, ", ") + "."
}

// pageNumber truncates v to an integer between 1 and math.MaxInt32.
func pageNumber(v float64) int {
	switch {
	case math.IsNaN(v) || v < 1:
		return 1
	case v > math.MaxInt32:
		return math.MaxInt32
	}
	return int(v)
}
