package bibliography

import (
	"strings"
	"time"
	"unicode"
)

// flatten rewrites every field value that is not a single braced or quoted
// literal into one braced literal: "#" concatenations are joined, @string
// macros and month abbreviations are expanded, bare numbers are wrapped.
// The parser drops all but the first part of a concatenation and exits the
// process on an undefined macro, so it only ever sees literals.
func flatten(src string) string {
	macros := make(map[string]string, 12)
	for m := time.January; m <= time.December; m++ {
		macros[strings.ToLower(m.String()[:3])] = m.String()
	}

	var out strings.Builder
	out.Grow(len(src))
	for i := 0; i < len(src); {
		if src[i] != '@' {
			out.WriteByte(src[i])
			i++
			continue
		}

		// @type{ or @type(
		j := i + 1
		for j < len(src) && isIdentByte(src[j]) {
			j++
		}
		kind := strings.ToLower(src[i+1 : j])
		k := skipSpace(src, j)
		if k >= len(src) || (src[k] != '{' && src[k] != '(') || kind == "comment" || kind == "preamble" {
			out.WriteString(src[i:j])
			i = j
			continue
		}
		closing := byte('}')
		if src[k] == '(' {
			closing = ')'
		}
		out.WriteString(src[i : k+1])
		i = flattenBody(src, k+1, closing, kind == "string", macros, &out)
	}
	return out.String()
}

// flattenBody copies an entry body starting at i, rewriting values, and
// returns the position after its closing delimiter.
func flattenBody(src string, i int, closing byte, isString bool, macros map[string]string, out *strings.Builder) int {
	fieldStart := i
	for i < len(src) {
		switch c := src[i]; {
		case c == closing:
			out.WriteByte(c)
			return i + 1
		case c == ',':
			out.WriteByte(c)
			i++
			fieldStart = i
		case c == '=':
			name := strings.ToLower(strings.TrimSpace(src[fieldStart:i]))
			out.WriteByte(c)
			end, parts, simple := readValue(src, i+1, closing)
			if simple {
				out.WriteString(src[i+1 : end])
			} else {
				value := resolve(parts, macros)
				out.WriteString(" {" + value + "}")
			}
			if isString && name != "" {
				macros[name] = resolve(parts, macros)
			}
			i = end
		default:
			out.WriteByte(c)
			i++
		}
	}
	return i
}

type valuePart struct {
	text  string
	macro bool
}

// readValue parses "part # part # ..." starting at i. simple reports a single
// braced or quoted literal, which the parser handles correctly as is.
func readValue(src string, i int, closing byte) (end int, parts []valuePart, simple bool) {
	for {
		i = skipSpace(src, i)
		if i >= len(src) {
			return i, parts, false
		}
		switch src[i] {
		case '{':
			j := matchBrace(src, i)
			parts = append(parts, valuePart{text: src[i+1 : max(j-1, i+1)]})
			i = j
		case '"':
			j := matchQuote(src, i)
			parts = append(parts, valuePart{text: src[i+1 : max(j-1, i+1)]})
			i = j
		default:
			j := i
			for j < len(src) && src[j] != '#' && src[j] != ',' && src[j] != closing && !unicode.IsSpace(rune(src[j])) {
				j++
			}
			parts = append(parts, valuePart{text: src[i:j], macro: true})
			i = j
		}

		k := skipSpace(src, i)
		if k < len(src) && src[k] == '#' {
			i = k + 1
			continue
		}
		simple = len(parts) == 1 && !parts[0].macro
		return i, parts, simple
	}
}

func resolve(parts []valuePart, macros map[string]string) string {
	var b strings.Builder
	for _, p := range parts {
		if !p.macro {
			b.WriteString(p.text)
			continue
		}
		if v, ok := macros[strings.ToLower(p.text)]; ok {
			b.WriteString(v)
			continue
		}
		// Numbers, and undefined macros kept by name.
		b.WriteString(p.text)
	}
	return b.String()
}

// matchBrace returns the position after the brace group opening at i.
func matchBrace(src string, i int) int {
	depth := 0
	for j := i; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1
			}
		}
	}
	return len(src)
}

// matchQuote returns the position after the quoted string opening at i.
// Quotes inside braces do not terminate it.
func matchQuote(src string, i int) int {
	depth := 0
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				return j + 1
			}
		}
	}
	return len(src)
}

func skipSpace(src string, i int) int {
	for i < len(src) && unicode.IsSpace(rune(src[i])) {
		i++
	}
	return i
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
