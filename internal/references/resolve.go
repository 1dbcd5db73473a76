package references

import (
	"github.com/jackzampolin/coursepack/internal/types"
)

// Resolved maps citation keys to concrete source filenames.
type Resolved map[string]string

// ResolveAll resolves every reference map target against the index. It
// stops at the first target that matches nothing; keys are visited in
// sorted order.
func ResolveAll(m Map, index FilenameIndex) (Resolved, error) {
	out := make(Resolved, m.Len())
	for _, key := range m.Keys() {
		target, _ := m.Target(key)
		name, ok, err := Resolve(target, index.Names)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &UnresolvedReferenceError{Key: key, Target: target}
		}
		out[key] = name
	}
	return out, nil
}

// AttachFilenames returns canonical rows carrying the resolved filename of
// each row's reference. Rows whose reference is not in resolved get an
// empty filename.
func AttachFilenames(rows []types.LessonRow, resolved Resolved) []types.CanonicalRow {
	out := make([]types.CanonicalRow, len(rows))
	for i, r := range rows {
		out[i] = types.CanonicalRow{LessonRow: r}.Clone()
		out[i].Filename = resolved[r.Reference]
	}
	return out
}

// Canonical wraps lesson rows without filenames, for runs that skip
// reference resolution.
func Canonical(rows []types.LessonRow) []types.CanonicalRow {
	return AttachFilenames(rows, nil)
}
