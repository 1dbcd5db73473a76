package diag

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Warn(Event{Kind: ExtraColumnsDropped, Message: "dropped", Keys: []string{"notes"}})
	r.Warn(Event{Kind: RowSkipped, Message: "skipped"})

	if got := len(r.Events()); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
	dropped := r.OfKind(ExtraColumnsDropped)
	if len(dropped) != 1 || dropped[0].Keys[0] != "notes" {
		t.Errorf("unexpected events of kind %s: %+v", ExtraColumnsDropped, dropped)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewLogSink(logger).Warn(Event{
		Kind:    BibliographyEntriesUnreferenced,
		Message: "unused bibliography entries",
		Keys:    []string{"X", "Y"},
	})

	out := buf.String()
	for _, want := range []string{"level=WARN", "unused bibliography entries", "keys=X,Y"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestTee(t *testing.T) {
	var a, b Recorder
	Tee(&a, nil, &b).Warn(Event{Kind: RowSkipped})

	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Errorf("expected both recorders to receive the event")
	}
}
