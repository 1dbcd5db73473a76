package references

import "strings"

// PartialMarker flags a reference map target as a filename prefix.
const PartialMarker = "..."

// ellipsis is accepted as a partial marker too; spreadsheets and editors
// often autocorrect "..." into it.
const ellipsis = "…"

// IsPartial reports whether target ends with a partial marker.
func IsPartial(target string) bool {
	t := strings.TrimSpace(target)
	return strings.HasSuffix(t, PartialMarker) || strings.HasSuffix(t, ellipsis)
}

// TrimPartial removes a trailing partial marker from target.
func TrimPartial(target string) string {
	t := strings.TrimSpace(target)
	t = strings.TrimSuffix(t, PartialMarker)
	return strings.TrimSuffix(t, ellipsis)
}

// MatchExact finds the candidate equal to target, ignoring case. The
// candidate is returned with its original casing.
func MatchExact(target string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if strings.EqualFold(c, target) {
			return c, true
		}
	}
	return "", false
}

// MatchPartial finds the single candidate starting with prefix, ignoring
// case. The caller strips the partial marker first. No match is not an
// error; more than one match is an *AmbiguityError.
func MatchPartial(prefix string, candidates []string) (string, bool, error) {
	p := strings.ToLower(prefix)

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), p) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", false, nil
	case 1:
		return matches[0], true, nil
	default:
		return "", false, &AmbiguityError{Target: prefix, Matches: matches}
	}
}

// Resolve matches target against candidates, as a prefix when it carries
// the partial marker and exactly otherwise.
func Resolve(target string, candidates []string) (string, bool, error) {
	if IsPartial(target) {
		return MatchPartial(TrimPartial(target), candidates)
	}
	name, ok := MatchExact(strings.TrimSpace(target), candidates)
	return name, ok, nil
}
