package domain

import (
	"regexp"
	"strconv"
	"time"
)

// DisplayDateLayout renders dates as "June 11, 2025".
const DisplayDateLayout = "January 2, 2006"

// localizedDateRe matches "<d>日 <m>月 <yyyy>年", e.g. "11日 6月 2025年".
// The separator class includes Unicode space separators (U+3000, U+00A0).
var localizedDateRe = regexp.MustCompile(`^(\d{1,2})日[\s\p{Zs}]*(\d{1,2})月[\s\p{Zs}]*(\d{4})年$`)

// ParseDate parses a localized observation date. It reports false when the
// input does not match the pattern or names a day the calendar does not have.
//
// The month in the input is 1-indexed, as is time.Month, so it is used as is.
func ParseDate(input string) (time.Time, bool) {
	m := localizedDateRe.FindStringSubmatch(input)
	if m == nil {
		return time.Time{}, false
	}

	// The pattern guarantees at most four ASCII digits per group.
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// time.Date rolls overflow into the next month or year; reject instead.
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// FormatDate renders a localized observation date for display. Unparseable
// input is returned unchanged so malformed dates stay visible; empty input
// renders as "N/A".
func FormatDate(input string) string {
	if d, ok := ParseDate(input); ok {
		return d.Format(DisplayDateLayout)
	}
	if input == "" {
		return NotAvailable
	}
	return input
}
