package references

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/coursepack/internal/bibliography"
	"github.com/jackzampolin/coursepack/internal/diag"
	"github.com/jackzampolin/coursepack/internal/types"
)

var sourceFiles = []string{
	"GLS_Intermediate_Macro.pdf",
	"rbc_extensions_sp17.pdf",
	"rbc_notes_2017.pdf",
	"stylized_facts_rbc_sp17.pdf",
	"uribe-notes.pdf",
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("%PDF-1.4\n"), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", n, err)
		}
	}
}

func TestParseMap(t *testing.T) {
	m, err := ParseMap([]byte("GLS: GLS_Intermediate_Macro.pdf\nU: uribe-notes.pdf\nS1: rbc_notes...\n"))
	if err != nil {
		t.Fatalf("ParseMap failed: %v", err)
	}
	if diff := cmp.Diff([]string{"GLS", "S1", "U"}, m.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if target, ok := m.Target("S1"); !ok || target != "rbc_notes..." {
		t.Errorf("got target %q, %v", target, ok)
	}

	invalid := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"empty mapping", "{}"},
		{"list", "- a.pdf\n- b.pdf\n"},
		{"empty target", "GLS: \"\"\n"},
		{"nested value", "GLS:\n  file: a.pdf\n"},
		{"malformed yaml", "GLS: [a.pdf\n"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMap([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref_to_file.yaml")
	if err := os.WriteFile(path, []byte("A: notes.pdf\n"), 0o644); err != nil {
		t.Fatalf("failed to write map: %v", err)
	}
	m, err := LoadMap(path)
	if err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}
	if m.Len() != 1 || !m.Has("A") {
		t.Errorf("unexpected map keys %v", m.Keys())
	}
}

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.pdf", "a.PDF", "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	idx, err := ListPDFs(dir)
	if err != nil {
		t.Fatalf("ListPDFs failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a.PDF", "b.pdf"}, idx.Names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if got := idx.Path("a.PDF"); got != filepath.Join(dir, "a.PDF") {
		t.Errorf("unexpected path %q", got)
	}

	if _, err := ListPDFs(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestMatchExact(t *testing.T) {
	tests := []struct {
		target string
		want   string
		ok     bool
	}{
		{"rbc_notes_2017.pdf", "rbc_notes_2017.pdf", true},
		{"GLS_INTERMEDIATE_MACRO.PDF", "GLS_Intermediate_Macro.pdf", true},
		{"rbc_notes_2017", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, ok := MatchExact(tt.target, sourceFiles)
			if got != tt.want || ok != tt.ok {
				t.Errorf("got (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMatchPartial(t *testing.T) {
	t.Run("single match", func(t *testing.T) {
		got, ok, err := MatchPartial("RBC_notes", sourceFiles)
		if err != nil || !ok || got != "rbc_notes_2017.pdf" {
			t.Errorf("got (%q, %v, %v)", got, ok, err)
		}
	})

	t.Run("no match", func(t *testing.T) {
		got, ok, err := MatchPartial("solow", sourceFiles)
		if err != nil || ok || got != "" {
			t.Errorf("got (%q, %v, %v)", got, ok, err)
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		_, _, err := MatchPartial("rbc", sourceFiles)
		var amb *AmbiguityError
		if !errors.As(err, &amb) {
			t.Fatalf("expected AmbiguityError, got %v", err)
		}
		want := []string{"rbc_extensions_sp17.pdf", "rbc_notes_2017.pdf"}
		if diff := cmp.Diff(want, amb.Matches); diff != "" {
			t.Errorf("matches mismatch (-want +got):\n%s", diff)
		}
		for _, m := range want {
			if !strings.Contains(err.Error(), m) {
				t.Errorf("error %q does not name %s", err.Error(), m)
			}
		}
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"uribe-notes.pdf", "uribe-notes.pdf"},
		{"stylized...", "stylized_facts_rbc_sp17.pdf"},
		{"rbc_ext…", "rbc_extensions_sp17.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, ok, err := Resolve(tt.target, sourceFiles)
			if err != nil || !ok || got != tt.want {
				t.Errorf("got (%q, %v, %v), want %q", got, ok, err, tt.want)
			}
		})
	}

	// Without the marker a prefix is only an exact candidate.
	if _, ok, _ := Resolve("stylized", sourceFiles); ok {
		t.Error("expected no match without partial marker")
	}
}

func TestResolveAll(t *testing.T) {
	t.Run("exact and partial targets", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "notes.pdf", "extra_notes_v2.pdf")
		idx, err := ListPDFs(dir)
		if err != nil {
			t.Fatalf("ListPDFs failed: %v", err)
		}

		got, err := ResolveAll(NewMap(map[string]string{"A": "notes.pdf", "B": "extra_notes..."}), idx)
		if err != nil {
			t.Fatalf("ResolveAll failed: %v", err)
		}
		want := Resolved{"A": "notes.pdf", "B": "extra_notes_v2.pdf"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("resolved mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("first unresolved target fails", func(t *testing.T) {
		idx := FilenameIndex{Names: sourceFiles}
		m := NewMap(map[string]string{"GLS": "GLS_Intermediate_Macro.pdf", "X": "typo.pdf", "Z": "also_missing.pdf"})

		_, err := ResolveAll(m, idx)
		var unresolved *UnresolvedReferenceError
		if !errors.As(err, &unresolved) {
			t.Fatalf("expected UnresolvedReferenceError, got %v", err)
		}
		if unresolved.Key != "X" || unresolved.Target != "typo.pdf" {
			t.Errorf("unexpected failing reference %+v", unresolved)
		}
		if !strings.Contains(err.Error(), "Check for typos?") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("ambiguity is fatal", func(t *testing.T) {
		_, err := ResolveAll(NewMap(map[string]string{"S": "rbc..."}), FilenameIndex{Names: sourceFiles})
		var amb *AmbiguityError
		if !errors.As(err, &amb) {
			t.Fatalf("expected AmbiguityError, got %v", err)
		}
	})
}

func TestAttachFilenames(t *testing.T) {
	rows := []types.LessonRow{
		{Week: 1, Reference: "GLS", PageEnd: types.Float(10)},
		{Week: 2, Reference: "GLS"},
		{Week: 2, Reference: "U"},
	}
	out := AttachFilenames(rows, Resolved{"GLS": "GLS_Intermediate_Macro.pdf"})

	if out[0].Filename != "GLS_Intermediate_Macro.pdf" || out[1].Filename != "GLS_Intermediate_Macro.pdf" {
		t.Errorf("expected both GLS rows to share the filename, got %q and %q", out[0].Filename, out[1].Filename)
	}
	if out[2].Filename != "" {
		t.Errorf("expected unmapped reference to have no filename, got %q", out[2].Filename)
	}

	*out[0].PageEnd = 99
	if *rows[0].PageEnd != 10 {
		t.Error("input rows were modified")
	}
}

func entries(ids ...string) []bibliography.Entry {
	out := make([]bibliography.Entry, len(ids))
	for i, id := range ids {
		out[i] = bibliography.Entry{ID: id, Citation: bibliography.Citation{
			Type:   "misc",
			Fields: map[string]string{"title": "Title " + id},
		}}
	}
	return out
}

func TestReconcileBibliography(t *testing.T) {
	var rec diag.Recorder
	m := NewMap(map[string]string{"X": "x.pdf", "Y": "y.pdf", "W": "w.pdf"})

	got := ReconcileBibliography(entries("X", "Y", "Z"), m, &rec)

	if diff := cmp.Diff([]string{"X", "Y"}, slices.Sorted(maps.Keys(got))); diff != "" {
		t.Errorf("referenced keys mismatch (-want +got):\n%s", diff)
	}
	if got["X"].Field("title") != "Title X" {
		t.Errorf("expected citation payload to be kept, got %+v", got["X"])
	}

	missing := rec.OfKind(diag.ReferencesMissingFromBibliography)
	if len(missing) != 1 {
		t.Fatalf("expected one missing warning, got %d", len(missing))
	}
	if diff := cmp.Diff([]string{"W"}, missing[0].Keys); diff != "" {
		t.Errorf("missing keys mismatch (-want +got):\n%s", diff)
	}

	extra := rec.OfKind(diag.BibliographyEntriesUnreferenced)
	if len(extra) != 1 {
		t.Fatalf("expected one extra warning, got %d", len(extra))
	}
	if diff := cmp.Diff([]string{"Z"}, extra[0].Keys); diff != "" {
		t.Errorf("extra keys mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileBibliography_NoWarningsWhenAligned(t *testing.T) {
	var rec diag.Recorder
	got := ReconcileBibliography(entries("A", "B"), NewMap(map[string]string{"A": "a.pdf", "B": "b.pdf"}), &rec)
	if len(got) != 2 {
		t.Errorf("expected 2 citations, got %d", len(got))
	}
	if n := len(rec.Events()); n != 0 {
		t.Errorf("expected no warnings, got %d", n)
	}
}

func TestMergeBibliography(t *testing.T) {
	rows := Canonical([]types.LessonRow{
		{Week: 1, Reference: "X"},
		{Week: 2, Reference: "Y"},
	})
	cites := AllCitations(entries("X", "Y"))

	out, err := MergeBibliography(rows, cites)
	if err != nil {
		t.Fatalf("MergeBibliography failed: %v", err)
	}
	if out[1].EntryType != "misc" || out[1].Field("title") != "Title Y" {
		t.Errorf("unexpected merged row %+v", out[1])
	}

	out[0].Fields["title"] = "changed"
	if cites["X"].Field("title") != "Title X" {
		t.Error("merged rows share fields with the bibliography")
	}

	t.Run("every missing key is named", func(t *testing.T) {
		rows := Canonical([]types.LessonRow{
			{Week: 1, Reference: "X"},
			{Week: 1, Reference: "Q"},
			{Week: 2, Reference: "P"},
			{Week: 3, Reference: "Q"},
		})
		_, err := MergeBibliography(rows, cites)
		var missing *MissingCitationError
		if !errors.As(err, &missing) {
			t.Fatalf("expected MissingCitationError, got %v", err)
		}
		if diff := cmp.Diff([]string{"P", "Q"}, missing.Keys); diff != "" {
			t.Errorf("missing keys mismatch (-want +got):\n%s", diff)
		}
	})
}
