package references

import (
	"fmt"
	"strings"
)

// AmbiguityError is returned when a partial filename matches more than one
// source PDF.
type AmbiguityError struct {
	Target  string
	Matches []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous partial file name %q, found %d possible matches: %s",
		e.Target, len(e.Matches), strings.Join(e.Matches, ", "))
}

// UnresolvedReferenceError is returned when a reference map target matches
// no source PDF.
type UnresolvedReferenceError struct {
	Key    string
	Target string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s (reference %s) not found among PDF files in source directory. Check for typos?",
		e.Target, e.Key)
}

// MissingCitationError is returned when lesson plan references have no
// bibliography entry.
type MissingCitationError struct {
	Keys []string
}

func (e *MissingCitationError) Error() string {
	return fmt.Sprintf("the following references found in your lesson plan do not have bibliography entries: %s",
		strings.Join(e.Keys, ", "))
}
