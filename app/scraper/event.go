package scraper

import (
	"strings"
	"time"
)

// Event is a single raw event record as produced by a source. Records are
// ephemeral: they exist only during one scrape run and become stored rows on
// upsert.
type Event struct {
	Title       string
	DateStart   time.Time
	DateEnd     *time.Time
	Description string
	Location    string
	City        string
	Category    string
	ImageURL    string
	URL         string
	Price       string
	Source      string
	Tags        []string
}

// Valid reports whether the record carries the minimum required fields.
// Invalid records are dropped before persistence.
func (e Event) Valid() bool {
	return strings.TrimSpace(e.Title) != "" && !e.DateStart.IsZero()
}

// applyDefaults fills empty fields from the source configuration defaults.
func applyDefaults(e *Event, location, category, city string) {
	if e.Location == "" {
		e.Location = location
	}
	if e.Category == "" {
		e.Category = category
	}
	if e.City == "" {
		e.City = city
	}
}
