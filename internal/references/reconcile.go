package references

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/jackzampolin/coursepack/internal/bibliography"
	"github.com/jackzampolin/coursepack/internal/diag"
	"github.com/jackzampolin/coursepack/internal/types"
)

// ReconcileBibliography scopes bibliography entries to the keys of the
// reference map. Map keys without an entry and entries without a map key
// are reported to sink. Only entries present in both are returned.
func ReconcileBibliography(entries []bibliography.Entry, m Map, sink diag.Sink) map[string]bibliography.Citation {
	if sink == nil {
		sink = diag.Discard
	}

	index := bibliography.Index(entries)

	var missing []string
	for _, key := range m.Keys() {
		if _, ok := index[key]; !ok {
			missing = append(missing, key)
		}
	}
	var extra []string
	for _, id := range bibliography.IDs(entries) {
		if !m.Has(id) {
			extra = append(extra, id)
		}
	}

	if len(missing) > 0 {
		sink.Warn(diag.Event{
			Kind: diag.ReferencesMissingFromBibliography,
			Message: fmt.Sprintf("the following references from your reference map were not found in the bibliography: %s. "+
				"Citations cannot be generated for these resources on weekly cover sheets", strings.Join(missing, ", ")),
			Keys: missing,
		})
	}
	if len(extra) > 0 {
		sink.Warn(diag.Event{
			Kind: diag.BibliographyEntriesUnreferenced,
			Message: fmt.Sprintf("the following bibliography entries were not found in the reference map: %s. "+
				"They will not be used in the final PDF", strings.Join(extra, ", ")),
			Keys: extra,
		})
	}

	out := make(map[string]bibliography.Citation)
	for id, c := range index {
		if m.Has(id) {
			out[id] = c
		}
	}
	return out
}

// AllCitations indexes every bibliography entry, for runs without a
// reference map.
func AllCitations(entries []bibliography.Entry) map[string]bibliography.Citation {
	return bibliography.Index(entries)
}

// MergeBibliography left-joins bibliography fields onto rows by reference.
// Every row reference must have a citation; the error names all that don't.
func MergeBibliography(rows []types.CanonicalRow, cites map[string]bibliography.Citation) ([]types.CanonicalRow, error) {
	seen := make(map[string]bool)
	var missing []string
	for _, r := range rows {
		if _, ok := cites[r.Reference]; ok || seen[r.Reference] {
			continue
		}
		seen[r.Reference] = true
		missing = append(missing, r.Reference)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingCitationError{Keys: missing}
	}

	out := make([]types.CanonicalRow, len(rows))
	for i, r := range rows {
		c := cites[r.Reference]
		out[i] = r.Clone()
		out[i].EntryType = c.Type
		out[i].Fields = maps.Clone(c.Fields)
	}
	return out, nil
}
