package lesson

import (
	"fmt"
	"strings"
)

// SchemaErrorKind distinguishes the ways a lesson plan can violate its schema.
type SchemaErrorKind string

const (
	// MissingColumns means one or more required columns are absent.
	MissingColumns SchemaErrorKind = "missing_columns"
	// IncompatibleTypes means one or more columns could not be coerced.
	IncompatibleTypes SchemaErrorKind = "incompatible_types"
)

// TypeMismatch describes a column that could not be coerced.
type TypeMismatch struct {
	Column   string
	Found    DataType
	Expected DataType
	// Missing counts empty cells in a column that requires a value.
	Missing int
}

func (m TypeMismatch) String() string {
	found := string(m.Found)
	if m.Missing > 0 {
		found = fmt.Sprintf("%s (%d missing)", found, m.Missing)
	}
	return fmt.Sprintf("%s, found: %s, expected: %s", m.Column, found, m.Expected)
}

// SchemaError reports every schema problem of one kind at once.
type SchemaError struct {
	Kind       SchemaErrorKind
	Columns    []string
	Mismatches []TypeMismatch
}

func (e *SchemaError) Error() string {
	switch e.Kind {
	case MissingColumns:
		return "lesson plan is missing the following columns: " + strings.Join(e.Columns, ", ")
	case IncompatibleTypes:
		parts := make([]string, len(e.Mismatches))
		for i, m := range e.Mismatches {
			parts[i] = m.String()
		}
		return "found columns with unexpected datatypes that could not be converted: " + strings.Join(parts, "; ")
	default:
		return "lesson plan schema error"
	}
}
