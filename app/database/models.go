package database

import (
	"time"
)

// Event represents a stored event row: a raw record plus the scrape
// timestamp, unique per (title, date_start, source).
type Event struct {
	ID          int64
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
	ScrapedAt   time.Time
}
