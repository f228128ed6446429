package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// germanMonths maps German month names, 3-letter abbreviations and common
// spelling variants to month numbers.
var germanMonths = map[string]time.Month{
	"januar": time.January, "jan": time.January,
	"februar": time.February, "feb": time.February,
	"märz": time.March, "maerz": time.March, "mär": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"mai": time.May,
	"juni": time.June, "jun": time.June,
	"juli": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November,
	"dezember": time.December, "dez": time.December,
}

var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var numericLayouts = []string{
	"2.1.2006 15:04",
	"2.1.2006",
}

// Date like "15. März 2026, 19:30 Uhr" or "15. März 2026 um 19.30 Uhr"
var reMonthName = regexp.MustCompile(
	`(\d{1,2})\.\s*([A-Za-zÄÖÜäöü]+)\s+(\d{4})` +
		`(?:[,\s]+(?:um\s+)?(\d{1,2})[:.](\d{2})(?:\s*Uhr)?)?`)

// Numeric date embedded in free text: "25.04.2026 18:00" or "25.04.2026"
var reNumeric = regexp.MustCompile(
	`(\d{1,2})\.(\d{1,2})\.(\d{4})(?:\s+(\d{1,2})[:.](\d{2})(?:\s*Uhr)?)?`)

// ParseDateTime parses free-form date/time text, trying strategies in fixed
// priority order: ISO 8601-like, numeric German, German month names, and
// finally a lenient catch-all for exotic formats (RFC3339 with offsets etc.).
// The boolean result is false when no strategy matched; an invalid calendar
// date (Feb 31) is a non-match, never an error.
func ParseDateTime(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := parseISO(s); ok {
		return t, true
	}
	if t, ok := parseGermanNumeric(s); ok {
		return t, true
	}
	if t, ok := parseGermanMonthName(s); ok {
		return t, true
	}

	// Catch-all: timezone-qualified timestamps from JSON-LD startDate and
	// similar machine formats.
	if strings.ContainsAny(s, "0123456789") {
		if t, err := dateparse.ParseLocal(s); err == nil {
			return stripZone(t), true
		}
	}

	return time.Time{}, false
}

func parseISO(s string) (time.Time, bool) {
	// Timestamps with timezone suffixes are handled by truncating to the
	// local wall-clock part, matching the second-precision ISO layouts.
	candidate := s
	if len(candidate) > 19 {
		candidate = candidate[:19]
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseGermanNumeric(s string) (time.Time, bool) {
	for _, layout := range numericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseGermanMonthName(s string) (time.Time, bool) {
	m := reMonthName.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	return dateFromMonthNameMatch(m)
}

// FindDate searches free text for the first parseable date, trying the
// numeric German pattern before the month-name pattern. Matches failing
// calendar validation are skipped, not fatal.
func FindDate(text string) (time.Time, bool) {
	for _, m := range reNumeric.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		hour, minute := optionalTime(m[4], m[5])
		if t, ok := makeDate(year, time.Month(month), day, hour, minute); ok {
			return t, true
		}
	}

	for _, m := range reMonthName.FindAllStringSubmatch(text, -1) {
		if t, ok := dateFromMonthNameMatch(m); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// ResolveYearless resolves a day/month without a year against a reference
// date: the current year is assumed, and dates more than 60 days in the past
// roll forward to next year. Sources using this format only ever list
// current or future events.
func ResolveYearless(day, month, hour, minute int, ref time.Time) (time.Time, bool) {
	t, ok := makeDate(ref.Year(), time.Month(month), day, hour, minute)
	if !ok {
		return time.Time{}, false
	}
	if t.Before(ref.AddDate(0, 0, -60)) {
		t, ok = makeDate(ref.Year()+1, time.Month(month), day, hour, minute)
		if !ok {
			return time.Time{}, false
		}
	}
	return t, true
}

func dateFromMonthNameMatch(m []string) (time.Time, bool) {
	day, _ := strconv.Atoi(m[1])
	month, ok := germanMonths[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[3])
	hour, minute := optionalTime(m[4], m[5])
	return makeDate(year, month, day, hour, minute)
}

// makeDate builds a timestamp with strict Gregorian validation: time.Date
// normalizes out-of-range components (Feb 31 becomes Mar 3), so the result
// is checked against the inputs.
func makeDate(year int, month time.Month, day, hour, minute int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

func optionalTime(hourStr, minuteStr string) (int, int) {
	if hourStr == "" {
		return 0, 0
	}
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}
	return hour, minute
}

func stripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
