package scraper

import (
	"testing"
	"time"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

func TestLokschuppen_ParseEventDivs(t *testing.T) {
	html := `<html><body>
	<div class="events-archive">
		<div class="event">
			<a class="img" href="/event/konzert-xy"><img src="/img/xy.jpg"></a>
			<span class="details"><div>Konzert XY 12.09.2026 Tickets kaufen</div></span>
		</div>
		<div class="event">
			<a class="img" href="/event/ausverkauft"><img src="/img/av.jpg"></a>
			<span class="details"><div>Grosse Show 01.10.2026 Ausverkauft</div></span>
		</div>
		<div class="event">
			<span class="details"><div>Ohne Datum</div></span>
		</div>
	</div>
	</body></html>`

	source := &lokschuppen{cfg: &sources.Config{
		Source: sources.Info{ID: "lokschuppen", BaseURL: "https://lokschuppen.de"},
	}}

	events := source.extractEventDivs(docFromHTML(t, html))
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	first := events[0]
	if first.Title != "Konzert XY" {
		t.Errorf("Expected title without date and status, got %q", first.Title)
	}
	if first.DateStart.Format("2006-01-02") != "2026-09-12" {
		t.Errorf("Unexpected date: %v", first.DateStart)
	}
	if first.URL != "https://lokschuppen.de/event/konzert-xy" {
		t.Errorf("Unexpected URL: %q", first.URL)
	}
	if first.ImageURL != "https://lokschuppen.de/img/xy.jpg" {
		t.Errorf("Unexpected image: %q", first.ImageURL)
	}
	if first.Description != "" {
		t.Errorf("Expected status text to be stripped, got %q", first.Description)
	}

	if events[1].Title != "Grosse Show" {
		t.Errorf("Unexpected second title: %q", events[1].Title)
	}
}

func TestPrime_SnippetDateFromSlug(t *testing.T) {
	html := `<div class="event-snippet">
		<h4 class="title">Neon Party</h4>
		<span class="event-date-cal-day">06</span>
		<span class="event-date-cal-month">Mär.</span>
		<a href="/events/neon-party-06-03-2026">Details</a>
	</div>`

	source := &prime{
		cfg: &sources.Config{Source: sources.Info{ID: "prime", BaseURL: "https://prime.de"}},
		now: func() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) },
	}

	event, ok := source.parseSnippet(docFromHTML(t, html).Find(".event-snippet"))
	if !ok {
		t.Fatal("Expected snippet to parse")
	}
	if event.DateStart.Format("2006-01-02") != "2026-03-06" {
		t.Errorf("Expected slug year to win, got %v", event.DateStart)
	}
	if event.URL != "https://prime.de/events/neon-party-06-03-2026" {
		t.Errorf("Unexpected URL: %q", event.URL)
	}
}

func TestPrime_SnippetDateYearless(t *testing.T) {
	html := `<div class="event-snippet">
		<h4 class="title">Silvester Special</h4>
		<span class="event-date-cal-day">31</span>
		<span class="event-date-cal-month">Dez.</span>
		<a href="/events/silvester-special">Details</a>
	</div>`

	source := &prime{
		cfg: &sources.Config{Source: sources.Info{ID: "prime", BaseURL: "https://prime.de"}},
		now: func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) },
	}

	event, ok := source.parseSnippet(docFromHTML(t, html).Find(".event-snippet"))
	if !ok {
		t.Fatal("Expected snippet to parse")
	}
	if event.DateStart.Format("2006-01-02") != "2026-12-31" {
		t.Errorf("Expected current year, got %v", event.DateStart)
	}
}

func TestSlugDate(t *testing.T) {
	date, ok := slugDate("/events/neon-party-06-03-2026")
	if !ok {
		t.Fatal("Expected slug date to parse")
	}
	if date.Format("2006-01-02") != "2026-03-06" {
		t.Errorf("Unexpected date: %v", date)
	}

	if _, ok := slugDate("/events/ohne-datum"); ok {
		t.Error("Expected no date from a slug without one")
	}
}

func TestNwEvents_ParseInfoBox(t *testing.T) {
	source := &nwEvents{
		cfg: &sources.Config{Source: sources.Info{ID: "nw_events", BaseURL: "https://nw.de"}},
		now: func() time.Time { return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) },
	}

	text := "Ein toller Abend steht bevor. Samstag, 7.3., 21 Uhr, Hechelei, Bielefeld; Karten (ab 52,50 €) im Vorverkauf."

	info, ok := source.parseInfoBox(text)
	if !ok {
		t.Fatal("Expected info box to parse")
	}
	if info.date.Format("2006-01-02T15:04") != "2026-03-07T21:00" {
		t.Errorf("Unexpected date: %v", info.date)
	}
	if info.venue != "Hechelei" {
		t.Errorf("Unexpected venue: %q", info.venue)
	}
	if info.city != "Bielefeld" {
		t.Errorf("Unexpected city: %q", info.city)
	}
}

func TestNwEvents_ParseInfoBox_SkipsPastDates(t *testing.T) {
	source := &nwEvents{
		cfg: &sources.Config{Source: sources.Info{ID: "nw_events", BaseURL: "https://nw.de"}},
		now: func() time.Time { return time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC) },
	}

	// March 7th is in the past but within the 60-day window, so the year
	// stays 2026 and the entry is skipped.
	text := "Rückblick: Samstag, 7.3., 21 Uhr, Hechelei, Bielefeld;"

	if _, ok := source.parseInfoBox(text); ok {
		t.Error("Expected past info box to be skipped")
	}
}

func TestNwEvents_FindEventDate_WeekdayForm(t *testing.T) {
	source := &nwEvents{
		cfg: &sources.Config{Source: sources.Info{ID: "nw_events", BaseURL: "https://nw.de"}},
		now: func() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) },
	}

	date, ok := source.findEventDate("Das Konzert findet am Freitag, 6. März 2026, 19.30 Uhr statt.")
	if !ok {
		t.Fatal("Expected a date")
	}
	if date.Format("2006-01-02T15:04") != "2026-03-06T19:30" {
		t.Errorf("Unexpected date: %v", date)
	}
}

func TestNwEvents_FindEventDate_KeywordForm(t *testing.T) {
	source := &nwEvents{
		cfg: &sources.Config{Source: sources.Info{ID: "nw_events", BaseURL: "https://nw.de"}},
		now: func() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) },
	}

	date, ok := source.findEventDate("Einlass: 20.03.2026 19:30, Abendkasse vorhanden.")
	if !ok {
		t.Fatal("Expected a date")
	}
	if date.Format("2006-01-02T15:04") != "2026-03-20T19:30" {
		t.Errorf("Unexpected date: %v", date)
	}
}

func TestNwEvents_FindEventDate_RejectsPast(t *testing.T) {
	source := &nwEvents{
		cfg: &sources.Config{Source: sources.Info{ID: "nw_events", BaseURL: "https://nw.de"}},
		now: func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) },
	}

	if _, ok := source.findEventDate("Die Premiere war am Freitag, 6. März 2026, 19.30 Uhr."); ok {
		t.Error("Expected past event date to be rejected")
	}
}

func TestFindKartenPrice(t *testing.T) {
	cases := []struct {
		text     string
		expected string
	}{
		{"Karten (ab 52,50 €) an allen Vorverkaufsstellen", "ab 52,50 Euro"},
		{"Der Eintritt kostet 18,02 € an der Abendkasse", "18,02 Euro"},
		{"Eintritt frei", ""},
	}

	for _, c := range cases {
		if got := findKartenPrice(c.text); got != c.expected {
			t.Errorf("findKartenPrice(%q) = %q, expected %q", c.text, got, c.expected)
		}
	}
}

func TestFindVenue(t *testing.T) {
	got := findVenue("Das Konzert in der Rudolf-Oetker-Halle beginnt pünktlich.")
	if got != "Rudolf-Oetker-Halle" {
		t.Errorf("Expected 'Rudolf-Oetker-Halle', got %q", got)
	}

	if got := findVenue("Kein Veranstaltungsort genannt"); got != "" {
		t.Errorf("Expected empty venue, got %q", got)
	}
}
