// Package bibliography loads BibTeX files and formats citations for cover sheets.
package bibliography

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/nickng/bibtex"
)

// Citation is the metadata of one bibliography entry, without its identifier.
type Citation struct {
	Type   string            `json:"type" yaml:"type"`
	Fields map[string]string `json:"fields" yaml:"fields"`
}

// Field returns a metadata field, or "".
func (c Citation) Field(name string) string {
	return c.Fields[name]
}

// Entry is a bibliography entry keyed by its citation identifier.
type Entry struct {
	ID string `json:"id" yaml:"id"`
	Citation
}

// Load parses a BibTeX file. Entries keep their file order.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bibliography: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bibliography %s: %w", path, err)
	}
	return entries, nil
}

// Parse reads BibTeX entries from r. Field names are lower-cased and values
// are stripped of TeX grouping and escapes. String macros and "#"
// concatenations are expanded.
func Parse(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read bibliography: %w", err)
	}
	bib, err := bibtex.Parse(strings.NewReader(flatten(string(data))))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(bib.Entries))
	for _, e := range bib.Entries {
		if e == nil || e.CiteName == "" {
			continue
		}
		fields := make(map[string]string, len(e.Fields))
		for name, value := range e.Fields {
			if value == nil {
				continue
			}
			key := strings.ToLower(name)
			if key == "url" || key == "doi" {
				fields[key] = cleanLink(value.String())
				continue
			}
			fields[key] = CleanTeX(value.String())
		}
		entries = append(entries, Entry{
			ID: e.CiteName,
			Citation: Citation{
				Type:   strings.ToLower(e.Type),
				Fields: fields,
			},
		})
	}
	return entries, nil
}

// IDs returns the distinct identifiers of entries, sorted.
func IDs(entries []Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	sort.Strings(ids)
	return slices.Compact(ids)
}

// Index maps entries by identifier. The first entry wins when an identifier
// appears twice.
func Index(entries []Entry) map[string]Citation {
	out := make(map[string]Citation, len(entries))
	for _, e := range entries {
		if _, dup := out[e.ID]; dup {
			continue
		}
		out[e.ID] = e.Citation
	}
	return out
}

var (
	texAccent   = regexp.MustCompile(`\\[\"'^` + "`" + `~=.]\s*\{?\s*([A-Za-z])\s*\}?`)
	texCommand  = regexp.MustCompile(`\\[A-Za-z]+\s*`)
	linkEscapes = strings.NewReplacer(`\_`, "_", `\%`, "%", `\&`, "&", `\#`, "#", "{", "", "}", "")
	texEscapes  = strings.NewReplacer(`\&`, "&", `\%`, "%", `\_`, "_", `\$`, "$", `\#`, "#", "---", "-", "--", "-", "~", " ")
	whitespace  = regexp.MustCompile(`\s+`)
)

// CleanTeX removes TeX markup from a field value so it can be typeset as plain text.
func CleanTeX(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	s = texAccent.ReplaceAllString(s, "$1")
	s = texEscapes.Replace(s)
	s = texCommand.ReplaceAllString(s, "")
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func cleanLink(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	return strings.TrimSpace(linkEscapes.Replace(s))
}
