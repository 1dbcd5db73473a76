package lesson

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jackzampolin/coursepack/internal/diag"
)

// ValidateColumns checks that every required column is present and returns a
// table holding only those columns, lower-cased and in required order.
// Extra columns are dropped and reported to sink.
func ValidateColumns(t Table, required []string, sink diag.Sink) (Table, error) {
	if sink == nil {
		sink = diag.Discard
	}

	index := make(map[string]int, len(t.Header))
	var extra []string
	for i, h := range t.Header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[name]; dup || !slices.Contains(required, name) {
			extra = append(extra, displayName(h, i))
			continue
		}
		index[name] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return Table{}, &SchemaError{Kind: MissingColumns, Columns: missing}
	}

	if len(extra) > 0 {
		sink.Warn(diag.Event{
			Kind:    diag.ExtraColumnsDropped,
			Message: "lesson plan had unexpected columns, they will be ignored: " + strings.Join(extra, ", "),
			Keys:    extra,
		})
	}

	out := Table{
		Header:  append([]string(nil), required...),
		Records: make([][]string, len(t.Records)),
	}
	for r, rec := range t.Records {
		row := make([]string, len(required))
		for c, col := range required {
			if i := index[col]; i < len(rec) {
				row[c] = strings.TrimSpace(rec[i])
			}
		}
		out.Records[r] = row
	}
	return out, nil
}

func displayName(h string, i int) string {
	if strings.TrimSpace(h) == "" {
		return fmt.Sprintf("(unnamed column %d)", i+1)
	}
	return h
}
