package scraper

import (
	"testing"
	"time"
)

func TestParseDateTime_GermanMonthName(t *testing.T) {
	parsed, ok := ParseDateTime("15. März 2026, 19:30 Uhr")
	if !ok {
		t.Fatal("Expected date to parse")
	}

	expected := time.Date(2026, time.March, 15, 19, 30, 0, 0, time.UTC)
	if !parsed.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, parsed)
	}
}

func TestParseDateTime_GermanMonthNameWithUm(t *testing.T) {
	parsed, ok := ParseDateTime("3. Oktober 2026 um 20.00 Uhr")
	if !ok {
		t.Fatal("Expected date to parse")
	}

	expected := time.Date(2026, time.October, 3, 20, 0, 0, 0, time.UTC)
	if !parsed.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, parsed)
	}
}

func TestParseDateTime_GermanMonthNameDateOnly(t *testing.T) {
	parsed, ok := ParseDateTime("1. Dezember 2026")
	if !ok {
		t.Fatal("Expected date to parse")
	}

	expected := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, parsed)
	}
}

func TestParseDateTime_GermanNumeric(t *testing.T) {
	parsed, ok := ParseDateTime("25.04.2026 18:00")
	if !ok {
		t.Fatal("Expected date to parse")
	}

	if parsed.Day() != 25 || parsed.Month() != time.April || parsed.Year() != 2026 {
		t.Errorf("Expected 2026-04-25, got %v", parsed)
	}
	if parsed.Hour() != 18 || parsed.Minute() != 0 {
		t.Errorf("Expected 18:00, got %02d:%02d", parsed.Hour(), parsed.Minute())
	}
}

func TestParseDateTime_ISO(t *testing.T) {
	cases := []struct {
		input    string
		expected time.Time
	}{
		{"2026-05-10T19:00:00", time.Date(2026, time.May, 10, 19, 0, 0, 0, time.UTC)},
		{"2026-05-10 19:00", time.Date(2026, time.May, 10, 19, 0, 0, 0, time.UTC)},
		{"2026-05-10", time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		parsed, ok := ParseDateTime(c.input)
		if !ok {
			t.Errorf("Expected %q to parse", c.input)
			continue
		}
		if !parsed.Equal(c.expected) {
			t.Errorf("For %q expected %v, got %v", c.input, c.expected, parsed)
		}
	}
}

func TestParseDateTime_ISOWithTimezoneSuffix(t *testing.T) {
	// JSON-LD startDate values often carry an offset. Only the local
	// wall-clock part matters.
	parsed, ok := ParseDateTime("2026-05-10T19:00:00+02:00")
	if !ok {
		t.Fatal("Expected date to parse")
	}

	expected := time.Date(2026, time.May, 10, 19, 0, 0, 0, time.UTC)
	if !parsed.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, parsed)
	}
}

func TestParseDateTime_InvalidCalendarDate(t *testing.T) {
	if _, ok := ParseDateTime("31.02.2026"); ok {
		t.Error("February 31st should not parse")
	}
}

func TestParseDateTime_NoMatch(t *testing.T) {
	for _, input := range []string{"", "Veranstaltung", "demnächst"} {
		if _, ok := ParseDateTime(input); ok {
			t.Errorf("Expected %q not to parse", input)
		}
	}
}

func TestFindDate_NumericInText(t *testing.T) {
	parsed, ok := FindDate("Konzert am 25.04.2026 um 18:00 Uhr im Forum")
	if !ok {
		t.Fatal("Expected to find a date")
	}

	expected := time.Date(2026, time.April, 25, 18, 0, 0, 0, time.UTC)
	if !parsed.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, parsed)
	}
}

func TestFindDate_MonthNameInText(t *testing.T) {
	parsed, ok := FindDate("Tickets für den 15. März 2026 sind verfügbar")
	if !ok {
		t.Fatal("Expected to find a date")
	}

	if parsed.Day() != 15 || parsed.Month() != time.March || parsed.Year() != 2026 {
		t.Errorf("Expected 2026-03-15, got %v", parsed)
	}
}

func TestFindDate_SkipsInvalidMatch(t *testing.T) {
	// The first candidate is not a real calendar date, the second is.
	parsed, ok := FindDate("Vom 31.02.2026 verschoben auf 01.03.2026")
	if !ok {
		t.Fatal("Expected to find a date")
	}

	if parsed.Day() != 1 || parsed.Month() != time.March {
		t.Errorf("Expected 2026-03-01, got %v", parsed)
	}
}

func TestFindDate_NoDate(t *testing.T) {
	if _, ok := FindDate("Keine Termine vorhanden"); ok {
		t.Error("Expected no date")
	}
}

func TestResolveYearless_CurrentYear(t *testing.T) {
	ref := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	parsed, ok := ResolveYearless(4, 3, 0, 0, ref)
	if !ok {
		t.Fatal("Expected date to resolve")
	}
	if parsed.Year() != 2026 {
		t.Errorf("Expected year 2026, got %d", parsed.Year())
	}
}

func TestResolveYearless_RollsToNextYear(t *testing.T) {
	ref := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	// January 1st is more than 60 days before the reference.
	parsed, ok := ResolveYearless(1, 1, 0, 0, ref)
	if !ok {
		t.Fatal("Expected date to resolve")
	}
	if parsed.Year() != 2027 {
		t.Errorf("Expected year 2027, got %d", parsed.Year())
	}
}

func TestResolveYearless_RecentPastStaysInYear(t *testing.T) {
	ref := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	// Mid-February is within the 60-day window, so it stays in 2026.
	parsed, ok := ResolveYearless(15, 2, 0, 0, ref)
	if !ok {
		t.Fatal("Expected date to resolve")
	}
	if parsed.Year() != 2026 {
		t.Errorf("Expected year 2026, got %d", parsed.Year())
	}
}

func TestResolveYearless_InvalidDay(t *testing.T) {
	ref := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	if _, ok := ResolveYearless(31, 2, 0, 0, ref); ok {
		t.Error("February 31st should not resolve")
	}
}
