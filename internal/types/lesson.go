// Package types provides the row types shared across the lesson plan pipeline.
// This package has no dependencies on other coursepack packages to avoid import cycles.
package types

import (
	"maps"
	"time"
)

// Column names of the lesson plan table, in canonical order.
const (
	ColumnWeek      = "week"
	ColumnDate      = "date"
	ColumnTopic     = "topic"
	ColumnReference = "reference"
	ColumnChapter   = "chapter"
	ColumnPageStart = "page_start"
	ColumnPageEnd   = "page_end"
	ColumnFilename  = "filename"
)

// LessonColumns lists the columns every lesson plan must carry.
var LessonColumns = []string{
	ColumnWeek,
	ColumnDate,
	ColumnTopic,
	ColumnReference,
	ColumnChapter,
	ColumnPageStart,
	ColumnPageEnd,
}

// LessonRow is one reading assignment from the lesson plan.
// Chapter, PageStart and PageEnd are nil when the cell was empty.
type LessonRow struct {
	Week      int       `json:"week" yaml:"week"`
	Date      time.Time `json:"date" yaml:"date"`
	Topic     string    `json:"topic" yaml:"topic"`
	Reference string    `json:"reference" yaml:"reference"`
	Chapter   *float64  `json:"chapter,omitempty" yaml:"chapter,omitempty"`
	PageStart *float64  `json:"page_start,omitempty" yaml:"page_start,omitempty"`
	PageEnd   *float64  `json:"page_end,omitempty" yaml:"page_end,omitempty"`
}

// CanonicalRow is a LessonRow merged with its resolved filename and
// bibliography metadata. It is the unit consumed by textbook assembly.
type CanonicalRow struct {
	LessonRow `yaml:",inline"`

	Filename  string            `json:"filename,omitempty" yaml:"filename,omitempty"`
	EntryType string            `json:"entry_type,omitempty" yaml:"entry_type,omitempty"`
	Fields    map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field returns a bibliography field, or "" when the row has none.
func (r CanonicalRow) Field(name string) string {
	return r.Fields[name]
}

// Clone returns a copy of the row that shares no mutable state with r.
func (r CanonicalRow) Clone() CanonicalRow {
	out := r
	out.Chapter = cloneFloat(r.Chapter)
	out.PageStart = cloneFloat(r.PageStart)
	out.PageEnd = cloneFloat(r.PageEnd)
	if r.Fields != nil {
		out.Fields = maps.Clone(r.Fields)
	}
	return out
}

// CloneRows copies a slice of rows with Clone.
func CloneRows(rows []CanonicalRow) []CanonicalRow {
	out := make([]CanonicalRow, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// Week is the set of readings assigned to one week, in lesson plan order.
type Week struct {
	Number int
	Date   time.Time
	Topic  string
	Rows   []CanonicalRow
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
