package lesson

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"github.com/jackzampolin/coursepack/internal/types"
)

// DateLayout is the normalized form of dates in a cleaned table.
const DateLayout = "2006-01-02"

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// NormalizeDates rewrites every parseable date cell to DateLayout.
// Cells that cannot be parsed are left untouched so CoerceDatatypes can
// report them together with any other incompatible column.
func NormalizeDates(t Table, now time.Time) Table {
	i, ok := t.Column(types.ColumnDate)
	if !ok {
		return t.Clone()
	}

	values := t.Values(i)
	for r, v := range values {
		if d, err := ParseDate(v, now); err == nil {
			values[r] = d.Format(DateLayout)
		}
	}
	return t.withColumn(i, values)
}

// ParseDate parses a loosely formatted calendar date such as "Sept-13-2023",
// "Sep 13", "09-13", "Sept 2023" or "Wednesday, September 13, 2023". A
// missing year defaults to the year of now and a missing day to the day of
// now, clamped to the length of the month. Numeric dates are read month
// first.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if d, ok := parseTokens(s, now); ok {
		return d, nil
	}

	d, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q: %w", s, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseTokens(s string, now time.Time) (time.Time, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var (
		month    time.Month
		hasMonth bool
		nums     []string
	)
	for _, f := range fields {
		f = stripOrdinal(f)
		switch {
		case isDigits(f):
			nums = append(nums, f)
		case isWeekday(f):
		default:
			m, ok := lookupMonth(f)
			if !ok || hasMonth {
				return time.Time{}, false
			}
			month, hasMonth = m, true
		}
	}

	defaultYear := now.Year()
	var year, day int
	switch {
	case hasMonth && len(nums) == 0:
		year = defaultYear
		day = min(now.Day(), daysIn(year, month))
	case hasMonth && len(nums) == 1 && len(nums[0]) == 4:
		year = atoi(nums[0])
		day = min(now.Day(), daysIn(year, month))
	case hasMonth && len(nums) == 1 && len(nums[0]) <= 2:
		day, year = atoi(nums[0]), defaultYear
	case hasMonth && len(nums) == 2 && len(nums[0]) == 4:
		year, day = atoi(nums[0]), atoi(nums[1])
	case hasMonth && len(nums) == 2:
		day, year = atoi(nums[0]), expandYear(nums[1])
	case !hasMonth && len(nums) == 2 && len(nums[0]) <= 2:
		month, day, year = time.Month(atoi(nums[0])), atoi(nums[1]), defaultYear
	case !hasMonth && len(nums) == 3 && len(nums[0]) == 4:
		year, month, day = atoi(nums[0]), time.Month(atoi(nums[1])), atoi(nums[2])
	case !hasMonth && len(nums) == 3:
		month, day, year = time.Month(atoi(nums[0])), atoi(nums[1]), expandYear(nums[2])
	default:
		return time.Time{}, false
	}

	// 13-09-2023 can only be day first.
	if !hasMonth && month > 12 && day >= 1 && day <= 12 {
		month, day = time.Month(day), int(month)
	}

	return validDate(year, month, day)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

// lookupMonth accepts full month names and abbreviations of at least three
// letters, including "Sept".
func lookupMonth(word string) (time.Month, bool) {
	w := strings.ToLower(word)
	if len(w) < 3 {
		return 0, false
	}
	for i, name := range monthNames {
		if strings.HasPrefix(name, w) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

func isWeekday(word string) bool {
	w := strings.ToLower(word)
	if len(w) < 3 {
		return false
	}
	for _, name := range weekdayNames {
		if strings.HasPrefix(name, w) {
			return true
		}
	}
	return false
}

func stripOrdinal(f string) string {
	lower := strings.ToLower(f)
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if trimmed := strings.TrimSuffix(lower, suffix); trimmed != lower && isDigits(trimmed) {
			return trimmed
		}
	}
	return f
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func expandYear(s string) int {
	y := atoi(s)
	if len(s) <= 2 {
		y += 2000
	}
	return y
}
