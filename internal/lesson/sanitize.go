package lesson

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"

	"github.com/jackzampolin/coursepack/internal/types"
)

// TextColumns are the free-text columns that end up in typeset output.
var TextColumns = []string{types.ColumnTopic, types.ColumnReference}

// SanitizeText transliterates non-ASCII characters in the given columns to
// their closest ASCII equivalent.
func SanitizeText(t Table, columns []string) Table {
	out := t.Clone()
	for _, col := range columns {
		i, ok := out.Column(col)
		if !ok {
			continue
		}
		values := out.Values(i)
		for r, v := range values {
			values[r] = Transliterate(v)
		}
		out = out.withColumn(i, values)
	}
	return out
}

// Transliterate returns s with every non-ASCII rune replaced by an ASCII
// approximation, so "Gödel" becomes "Godel".
func Transliterate(s string) string {
	if isASCII(s) {
		return s
	}
	return strings.TrimSpace(unidecode.Unidecode(norm.NFKC.String(s)))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
