// Package diag carries non-fatal pipeline diagnostics.
//
// Stages never log warnings directly. They emit Events to a Sink passed in by
// the caller, so commands can log them and tests can inspect them.
package diag

import (
	"log/slog"
	"strings"
	"sync"
)

// Kind identifies the category of a diagnostic.
type Kind string

const (
	// ExtraColumnsDropped is emitted when the lesson plan has columns the
	// pipeline does not use.
	ExtraColumnsDropped Kind = "extra_columns_dropped"

	// ReferencesMissingFromBibliography is emitted for reference map keys
	// that have no bibliography entry.
	ReferencesMissingFromBibliography Kind = "references_missing_from_bibliography"

	// BibliographyEntriesUnreferenced is emitted for bibliography entries
	// that the reference map never mentions.
	BibliographyEntriesUnreferenced Kind = "bibliography_entries_unreferenced"

	// RowSkipped is emitted when assembly skips a row it cannot place.
	RowSkipped Kind = "row_skipped"
)

// Event is a single warning raised by a pipeline stage.
type Event struct {
	Kind    Kind     `json:"kind" yaml:"kind"`
	Message string   `json:"message" yaml:"message"`
	Keys    []string `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// Sink receives diagnostics.
type Sink interface {
	Warn(Event)
}

// Discard is a Sink that drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Warn(Event) {}

// LogSink writes events to a slog logger at warn level.
type LogSink struct {
	Logger *slog.Logger
}

// NewLogSink returns a LogSink. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{Logger: logger}
}

// Warn implements Sink.
func (s *LogSink) Warn(e Event) {
	s.Logger.Warn(e.Message, "kind", string(e.Kind), "keys", strings.Join(e.Keys, ","))
}

// Recorder collects events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Warn implements Sink.
func (r *Recorder) Warn(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind returns the recorded events of the given kind.
func (r *Recorder) OfKind(kind Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Tee fans events out to several sinks.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Warn(e Event) {
	for _, s := range t {
		if s != nil {
			s.Warn(e)
		}
	}
}
