// Package lesson loads the lesson plan table and turns it into typed rows.
//
// The table goes through a fixed sequence of pure stages, each returning a new
// Table: ValidateColumns, NormalizeDates, CoerceDatatypes and SanitizeText.
// Decode then converts the cleaned table into types.LessonRow values.
package lesson

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is a raw lesson plan: a header row and string cells.
type Table struct {
	Header  []string
	Records [][]string
}

// LoadCSV reads a lesson plan table from a CSV file.
func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open lesson plan: %w", err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read lesson plan %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses CSV data whose first record is the header row.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("no header row")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, rec)
	}

	return Table{Header: header, Records: rows}, nil
}

// Column returns the index of the named column, compared case-insensitively.
func (t Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, true
		}
	}
	return -1, false
}

// Values returns a copy of the cells of column i.
func (t Table) Values(i int) []string {
	out := make([]string, len(t.Records))
	for r, rec := range t.Records {
		if i < len(rec) {
			out[r] = rec[i]
		}
	}
	return out
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{
		Header:  append([]string(nil), t.Header...),
		Records: make([][]string, len(t.Records)),
	}
	for i, rec := range t.Records {
		out.Records[i] = append([]string(nil), rec...)
	}
	return out
}

// withColumn returns a copy of t where column i holds values.
func (t Table) withColumn(i int, values []string) Table {
	out := t.Clone()
	for r := range out.Records {
		if i < len(out.Records[r]) {
			out.Records[r][i] = values[r]
		}
	}
	return out
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
