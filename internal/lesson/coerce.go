package lesson

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackzampolin/coursepack/internal/types"
)

// DataType is the semantic type of a lesson plan column.
type DataType string

const (
	Integer DataType = "integer"
	Float   DataType = "float"
	Text    DataType = "text"
	Date    DataType = "date"
	Empty   DataType = "empty"
)

// ExpectedTypes maps each lesson plan column to its semantic type.
var ExpectedTypes = map[string]DataType{
	types.ColumnWeek:      Integer,
	types.ColumnDate:      Date,
	types.ColumnTopic:     Text,
	types.ColumnReference: Text,
	types.ColumnChapter:   Float,
	types.ColumnPageStart: Float,
	types.ColumnPageEnd:   Float,
}

// CoerceDatatypes converts every column to its expected type and returns a
// table holding the canonical string form of each cell. Every column that
// cannot be converted is collected into a single IncompatibleTypes error.
// Columns without an expected type are passed through unchanged.
func CoerceDatatypes(t Table, expected map[string]DataType, now time.Time) (Table, error) {
	out := t.Clone()
	var mismatches []TypeMismatch

	for i, h := range t.Header {
		name := strings.ToLower(strings.TrimSpace(h))
		want, ok := expected[name]
		if !ok {
			continue
		}

		values := t.Values(i)
		found := inferType(values)
		converted, missing, ok := coerceColumn(values, want, now)
		if !ok {
			mismatches = append(mismatches, TypeMismatch{
				Column:   name,
				Found:    found,
				Expected: want,
				Missing:  missing,
			})
			continue
		}
		out = out.withColumn(i, converted)
	}

	if len(mismatches) > 0 {
		return Table{}, &SchemaError{Kind: IncompatibleTypes, Mismatches: mismatches}
	}
	return out, nil
}

// coerceColumn returns the converted values, the number of empty cells in a
// column that requires values, and whether every cell converted.
func coerceColumn(values []string, want DataType, now time.Time) ([]string, int, bool) {
	out := make([]string, len(values))
	missing := 0
	ok := true

	for r, raw := range values {
		v := strings.TrimSpace(raw)
		if want == Text && v != "" {
			out[r] = v
			continue
		}
		if isMissing(v) {
			if want != Float {
				missing++
				ok = false
			}
			continue
		}

		switch want {
		case Integer:
			n, good := parseInteger(v)
			if !good {
				ok = false
				continue
			}
			out[r] = strconv.Itoa(n)
		case Float:
			// Chapters and pages must fit an int once truncated.
			f, good := parseFloat(v)
			if !good || math.Abs(f) > math.MaxInt32 {
				ok = false
				continue
			}
			out[r] = strconv.FormatFloat(f, 'f', -1, 64)
		case Date:
			d, err := ParseDate(v, now)
			if err != nil {
				ok = false
				continue
			}
			out[r] = d.Format(DateLayout)
		}
	}
	return out, missing, ok
}

// inferType reports the narrowest type that fits every non-empty cell.
func inferType(values []string) DataType {
	allInt, allFloat, allDate, seen := true, true, true, false
	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if isMissing(v) {
			continue
		}
		seen = true
		if _, err := strconv.Atoi(v); err != nil {
			allInt = false
		}
		if _, ok := parseFloat(v); !ok {
			allFloat = false
		}
		if _, err := time.Parse(DateLayout, v); err != nil {
			allDate = false
		}
	}
	switch {
	case !seen:
		return Empty
	case allInt:
		return Integer
	case allFloat:
		return Float
	case allDate:
		return Date
	default:
		return Text
	}
}

func parseInteger(v string) (int, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	f, ok := parseFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func parseFloat(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isMissing treats blank cells and spreadsheet NaN markers as absent.
func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "nan", "na", "n/a", "null", "none":
		return true
	}
	return false
}
