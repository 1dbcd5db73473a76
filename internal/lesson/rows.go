package lesson

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackzampolin/coursepack/internal/diag"
	"github.com/jackzampolin/coursepack/internal/types"
)

// Decode converts a validated, coerced table into typed rows.
func Decode(t Table) ([]types.LessonRow, error) {
	idx := make(map[string]int, len(types.LessonColumns))
	for _, col := range types.LessonColumns {
		i, ok := t.Column(col)
		if !ok {
			return nil, &SchemaError{Kind: MissingColumns, Columns: []string{col}}
		}
		idx[col] = i
	}

	rows := make([]types.LessonRow, 0, len(t.Records))
	for r, rec := range t.Records {
		cell := func(col string) string {
			if i := idx[col]; i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		week, err := strconv.Atoi(cell(types.ColumnWeek))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid week %q: %w", r+1, cell(types.ColumnWeek), err)
		}
		if week < 1 {
			return nil, fmt.Errorf("row %d: week must be a positive integer, got %d", r+1, week)
		}

		date, err := time.Parse(DateLayout, cell(types.ColumnDate))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q: %w", r+1, cell(types.ColumnDate), err)
		}

		row := types.LessonRow{
			Week:      week,
			Date:      date,
			Topic:     cell(types.ColumnTopic),
			Reference: cell(types.ColumnReference),
		}
		optional := []struct {
			col string
			dst **float64
		}{
			{types.ColumnChapter, &row.Chapter},
			{types.ColumnPageStart, &row.PageStart},
			{types.ColumnPageEnd, &row.PageEnd},
		}
		for _, o := range optional {
			col, dst := o.col, o.dst
			v := cell(col)
			if v == "" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s %q: %w", r+1, col, v, err)
			}
			*dst = types.Float(f)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Load reads a lesson plan and runs every schema stage over it.
func Load(path string, now time.Time, sink diag.Sink) ([]types.LessonRow, error) {
	raw, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return Clean(raw, now, sink)
}

// Clean validates, normalizes, coerces and sanitizes a raw table and decodes
// it into rows.
func Clean(raw Table, now time.Time, sink diag.Sink) ([]types.LessonRow, error) {
	t, err := ValidateColumns(raw, types.LessonColumns, sink)
	if err != nil {
		return nil, err
	}
	t = NormalizeDates(t, now)
	t, err = CoerceDatatypes(t, ExpectedTypes, now)
	if err != nil {
		return nil, err
	}
	t = SanitizeText(t, TextColumns)
	return Decode(t)
}
