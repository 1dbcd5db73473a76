package lesson

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/coursepack/internal/diag"
	"github.com/jackzampolin/coursepack/internal/types"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

const completeCSV = `week,date,topic,reference,chapter,page_start,page_end
1,Sept-13-2023,Growth,GLS,2,1,20
1,Sept-13-2023,Growth,U,,,
2,Sept-20-2023,Real Business Cycles,S1,,3.0,
`

func mustRead(t *testing.T, data string) Table {
	t.Helper()
	tbl, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	return tbl
}

func TestReadCSV(t *testing.T) {
	tbl := mustRead(t, "\ufeffWeek,Date\n1,2023-09-13\n\n,\n2,2023-09-20\n")

	if diff := cmp.Diff([]string{"Week", "Date"}, tbl.Header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if len(tbl.Records) != 2 {
		t.Errorf("expected blank records to be skipped, got %d records", len(tbl.Records))
	}
}

func TestValidateColumns(t *testing.T) {
	t.Run("missing columns are all named", func(t *testing.T) {
		tbl := mustRead(t, "Week,Date,Topic,Reference,Chapter\n1,2023-09-13,Growth,GLS,\n")

		_, err := ValidateColumns(tbl, types.LessonColumns, nil)
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("expected SchemaError, got %v", err)
		}
		if schemaErr.Kind != MissingColumns {
			t.Errorf("expected kind %s, got %s", MissingColumns, schemaErr.Kind)
		}
		want := "lesson plan is missing the following columns: page_start, page_end"
		if err.Error() != want {
			t.Errorf("got %q, want %q", err.Error(), want)
		}
	})

	t.Run("extra columns are dropped with a warning", func(t *testing.T) {
		tbl := mustRead(t, ",week,date,topic,reference,chapter,page_start,page_end,extra_column\n"+
			"0,1,2023-09-13,Growth,GLS,,,,ignored\n")

		var rec diag.Recorder
		out, err := ValidateColumns(tbl, types.LessonColumns, &rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(types.LessonColumns, out.Header); diff != "" {
			t.Errorf("header mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"1", "2023-09-13", "Growth", "GLS", "", "", ""}, out.Records[0]); diff != "" {
			t.Errorf("record mismatch (-want +got):\n%s", diff)
		}

		events := rec.OfKind(diag.ExtraColumnsDropped)
		if len(events) != 1 {
			t.Fatalf("expected one %s event, got %d", diag.ExtraColumnsDropped, len(events))
		}
		if diff := cmp.Diff([]string{"(unnamed column 1)", "extra_column"}, events[0].Keys); diff != "" {
			t.Errorf("dropped keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("column names are case-insensitive", func(t *testing.T) {
		tbl := mustRead(t, "WEEK,Date,Topic,REFERENCE,Chapter,Page_Start,Page_End\n1,2023-09-13,Growth,GLS,,,\n")
		if _, err := ValidateColumns(tbl, types.LessonColumns, nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"Sept-13-2023", time.Date(2023, 9, 13, 0, 0, 0, 0, time.UTC)},
		{"Sept-13", time.Date(testNow.Year(), 9, 13, 0, 0, 0, 0, time.UTC)},
		{"09-13", time.Date(testNow.Year(), 9, 13, 0, 0, 0, 0, time.UTC)},
		{"Sep 13", time.Date(testNow.Year(), 9, 13, 0, 0, 0, 0, time.UTC)},
		{"13 Sep 23", time.Date(2023, 9, 13, 0, 0, 0, 0, time.UTC)},
		{"2023-09-13", time.Date(2023, 9, 13, 0, 0, 0, 0, time.UTC)},
		{"9/13/2023", time.Date(2023, 9, 13, 0, 0, 0, 0, time.UTC)},
		{"13/09/2023", time.Date(2023, 9, 13, 0, 0, 0, 0, time.UTC)},
		{"Wednesday, September 13th, 2023", time.Date(2023, 9, 13, 0, 0, 0, 0, time.UTC)},
		{"Feb 29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"September 2023", time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"Sep 2023", time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"Sept 2023", time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"September", time.Date(testNow.Year(), 9, 1, 0, 0, 0, 0, time.UTC)},
		{"Sept", time.Date(testNow.Year(), 9, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, testNow)
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got.Format(DateLayout), tt.want.Format(DateLayout))
			}
		})
	}

	t.Run("missing year uses the current year", func(t *testing.T) {
		now := time.Now()
		got, err := ParseDate("Sept-13", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Year() != now.Year() || got.Month() != time.September || got.Day() != 13 {
			t.Errorf("got %s", got.Format(DateLayout))
		}
	})

	t.Run("missing day uses the current day within the month", func(t *testing.T) {
		now := time.Date(2024, time.January, 31, 9, 0, 0, 0, time.UTC)
		for input, want := range map[string]time.Time{
			"Sept 2023": time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC),
			"Feb 2023":  time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
			"February":  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			"March":     time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		} {
			got, err := ParseDate(input, now)
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", input, err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseDate(%q) = %s, want %s", input, got.Format(DateLayout), want.Format(DateLayout))
			}
		}
	})

	for _, bad := range []string{"", "Feb 30 2023", "not a date at all"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			if _, err := ParseDate(bad, testNow); err == nil {
				t.Errorf("expected error for %q", bad)
			}
		})
	}
}

func TestNormalizeDates(t *testing.T) {
	tbl := mustRead(t, "week,date\n1,Sept-13\n2,whenever\n")

	out := NormalizeDates(tbl, testNow)

	if got := out.Records[0][1]; got != "2024-09-13" {
		t.Errorf("expected normalized date, got %q", got)
	}
	if got := out.Records[1][1]; got != "whenever" {
		t.Errorf("expected unparseable date to be left alone, got %q", got)
	}
	if tbl.Records[0][1] != "Sept-13" {
		t.Errorf("input table was modified")
	}
}

func TestCoerceDatatypes(t *testing.T) {
	t.Run("converts values to canonical form", func(t *testing.T) {
		tbl := mustRead(t, "week,date,topic,reference,chapter,page_start,page_end\n3.0,2023-09-13,Growth,GLS,nan,1,25.0\n")

		out, err := CoerceDatatypes(tbl, ExpectedTypes, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"3", "2023-09-13", "Growth", "GLS", "", "1", "25"}
		if diff := cmp.Diff(want, out.Records[0]); diff != "" {
			t.Errorf("record mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("reports a single bad column", func(t *testing.T) {
		tbl := mustRead(t, "week,date,topic,reference,chapter,page_start,page_end\n1,2023-09-13,Growth,GLS,,1,twenty\n")

		_, err := CoerceDatatypes(tbl, ExpectedTypes, testNow)
		want := "found columns with unexpected datatypes that could not be converted: page_end, found: text, expected: float"
		if err == nil || err.Error() != want {
			t.Errorf("got %v, want %q", err, want)
		}
	})

	t.Run("rejects page numbers too large for an int", func(t *testing.T) {
		tbl := mustRead(t, "week,date,topic,reference,chapter,page_start,page_end\n1,2023-09-13,Growth,GLS,1e12,1e19,3\n")

		_, err := CoerceDatatypes(tbl, ExpectedTypes, testNow)
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("expected SchemaError, got %v", err)
		}
		var cols []string
		for _, m := range schemaErr.Mismatches {
			cols = append(cols, m.Column)
		}
		if diff := cmp.Diff([]string{"chapter", "page_start"}, cols); diff != "" {
			t.Errorf("mismatched columns (-want +got):\n%s", diff)
		}
	})

	t.Run("reports every bad column", func(t *testing.T) {
		tbl := mustRead(t, "week,date,topic,reference,chapter,page_start,page_end\n"+
			"one,someday,Growth,,,1,x\n"+
			"2,2023-09-13,Growth,GLS,,1,2\n")

		_, err := CoerceDatatypes(tbl, ExpectedTypes, testNow)
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("expected SchemaError, got %v", err)
		}
		if schemaErr.Kind != IncompatibleTypes {
			t.Errorf("expected kind %s, got %s", IncompatibleTypes, schemaErr.Kind)
		}

		var cols []string
		for _, m := range schemaErr.Mismatches {
			cols = append(cols, m.Column)
		}
		if diff := cmp.Diff([]string{"week", "date", "reference", "page_end"}, cols); diff != "" {
			t.Errorf("mismatched columns (-want +got):\n%s", diff)
		}
		if !strings.Contains(err.Error(), "reference, found: text (1 missing), expected: text") {
			t.Errorf("expected missing reference in message, got %q", err.Error())
		}
	})
}

func TestSanitizeText(t *testing.T) {
	tbl := Table{
		Header:  []string{"topic", "reference", "chapter"},
		Records: [][]string{{"Gödel’s Theorem", "Café", "Ünchanged"}},
	}

	out := SanitizeText(tbl, TextColumns)

	want := []string{"Godel's Theorem", "Cafe", "Ünchanged"}
	if diff := cmp.Diff(want, out.Records[0]); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if tbl.Records[0][0] != "Gödel’s Theorem" {
		t.Errorf("input table was modified")
	}
}

func TestClean(t *testing.T) {
	rows, err := Clean(mustRead(t, completeCSV), testNow, nil)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Week != 1 || first.Reference != "GLS" || first.Date.Format(DateLayout) != "2023-09-13" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Chapter == nil || *first.Chapter != 2 {
		t.Errorf("expected chapter 2, got %v", first.Chapter)
	}
	if rows[1].PageStart != nil || rows[1].PageEnd != nil {
		t.Errorf("expected empty page range to stay absent, got %v-%v", rows[1].PageStart, rows[1].PageEnd)
	}
	if rows[2].PageStart == nil || *rows[2].PageStart != 3 {
		t.Errorf("expected page_start 3, got %v", rows[2].PageStart)
	}
}

func TestClean_DateWithoutDay(t *testing.T) {
	csv := "week,date,topic,reference,chapter,page_start,page_end\n1,Sept 2023,Growth,GLS,,,\n2,October,Cycles,U,,,\n"
	rows, err := Clean(mustRead(t, csv), testNow, nil)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if got := rows[0].Date.Format(DateLayout); got != "2023-09-01" {
		t.Errorf("first date = %s, want 2023-09-01", got)
	}
	if got := rows[1].Date.Format(DateLayout); got != "2024-10-01" {
		t.Errorf("second date = %s, want 2024-10-01", got)
	}
}

func TestDecode_RejectsNonPositiveWeek(t *testing.T) {
	tbl := mustRead(t, "week,date,topic,reference,chapter,page_start,page_end\n0,2023-09-13,Growth,GLS,,,\n")
	if _, err := Clean(tbl, testNow, nil); err == nil {
		t.Error("expected error for week 0")
	}
}
