package bibliography

import (
	"regexp"
	"strings"
)

var authorSep = regexp.MustCompile(`(?i)\s+and\s+`)

// Cite formats a citation in the American Economic Review reference style.
func Cite(c Citation) string {
	var b strings.Builder

	names := c.Field("author")
	if names == "" {
		names = c.Field("editor")
	}
	if names != "" {
		b.WriteString(sentence(FormatAuthors(names)))
	}
	year := c.Field("year")
	if year == "" {
		year = "n.d."
	}
	b.WriteString(sentence(year))

	title := c.Field("title")
	switch c.Type {
	case "book":
		b.WriteString(sentence(title))
		b.WriteString(publisher(c))
	case "incollection", "inproceedings", "inbook":
		b.WriteString(quoted(title))
		in := "In " + c.Field("booktitle")
		if ed := c.Field("editor"); ed != "" && c.Field("author") != "" {
			in += ", ed. " + FormatNames(ed)
		}
		if pages := c.Field("pages"); pages != "" {
			in += ", " + pages
		}
		b.WriteString(sentence(in))
		b.WriteString(publisher(c))
	case "article":
		b.WriteString(quoted(title))
		ref := c.Field("journal")
		if vol := c.Field("volume"); vol != "" {
			ref += " " + vol
		}
		if num := c.Field("number"); num != "" {
			ref += " (" + num + ")"
		}
		if pages := c.Field("pages"); pages != "" {
			ref += ": " + pages
		}
		b.WriteString(sentence(ref))
	case "techreport":
		b.WriteString(quoted(title))
		ref := strings.TrimSpace(strings.Join([]string{c.Field("institution"), c.Field("type"), c.Field("number")}, " "))
		b.WriteString(sentence(ref))
	default:
		b.WriteString(quoted(title))
		b.WriteString(sentence(c.Field("howpublished")))
		b.WriteString(sentence(c.Field("note")))
	}

	return strings.TrimSpace(b.String())
}

// FormatAuthors renders a BibTeX author list with the first author inverted:
// "Smith, John, Jane Doe, and Bob Roe".
func FormatAuthors(list string) string {
	names := splitNames(list)
	if len(names) == 0 {
		return ""
	}

	parts := make([]string, len(names))
	for i, n := range names {
		first, last := splitName(n)
		switch {
		case first == "":
			parts[i] = last
		case i == 0:
			parts[i] = last + ", " + first
		default:
			parts[i] = first + " " + last
		}
	}
	return joinNames(parts)
}

// FormatNames renders every name in natural order: "John Smith and Jane Doe".
func FormatNames(list string) string {
	names := splitNames(list)
	parts := make([]string, len(names))
	for i, n := range names {
		first, last := splitName(n)
		parts[i] = strings.TrimSpace(first + " " + last)
	}
	if len(parts) == 2 {
		return parts[0] + " and " + parts[1]
	}
	return joinNames(parts)
}

func splitNames(list string) []string {
	var out []string
	for _, n := range authorSep.Split(strings.TrimSpace(list), -1) {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// splitName accepts "Last, First" and "First Last".
func splitName(n string) (first, last string) {
	if i := strings.Index(n, ","); i >= 0 {
		return strings.TrimSpace(n[i+1:]), strings.TrimSpace(n[:i])
	}
	fields := strings.Fields(n)
	if len(fields) == 1 {
		return "", fields[0]
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

func joinNames(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}

func publisher(c Citation) string {
	pub, addr := c.Field("publisher"), c.Field("address")
	switch {
	case pub != "" && addr != "":
		return sentence(addr + ": " + pub)
	case pub != "":
		return sentence(pub)
	default:
		return ""
	}
}

// sentence terminates s with a period and a trailing space, or returns "".
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "?") && !strings.HasSuffix(s, "!") {
		s += "."
	}
	return s + " "
}

func quoted(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	if strings.HasSuffix(title, "?") || strings.HasSuffix(title, "!") {
		return `"` + title + `" `
	}
	return `"` + title + `." `
}
