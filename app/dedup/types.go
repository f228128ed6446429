package dedup

import (
	"github.com/sebastiankulla/bielefeld-events/app/database"
)

// timestampLayout is the catalog's ISO-8601 timestamp form, matching how
// dates are stored and sorted.
const timestampLayout = "2006-01-02T15:04:05"

// SourceRef records the provenance of one contributing record.
type SourceRef struct {
	Source string `json:"source"`
	URL    string `json:"url"`
}

// MergedEvent is the read-time derived view published in the catalog. It is
// recomputed on every publish cycle and never persisted. The JSON field set
// is the system's sole durable external contract.
type MergedEvent struct {
	Title       string      `json:"title"`
	DateStart   string      `json:"date_start"`
	DateEnd     string      `json:"date_end,omitempty"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	City        string      `json:"city"`
	Category    string      `json:"category"`
	ImageURL    string      `json:"image_url"`
	URL         string      `json:"url"`
	Price       string      `json:"price"`
	Source      string      `json:"source"`
	Tags        []string    `json:"tags"`
	Sources     []SourceRef `json:"sources"`
}

func fromStored(event database.Event) MergedEvent {
	merged := MergedEvent{
		Title:       event.Title,
		DateStart:   event.DateStart.Format(timestampLayout),
		Description: event.Description,
		Location:    event.Location,
		City:        event.City,
		Category:    event.Category,
		ImageURL:    event.ImageURL,
		URL:         event.URL,
		Price:       event.Price,
		Source:      event.Source,
		Tags:        event.Tags,
	}
	if merged.Tags == nil {
		merged.Tags = []string{}
	}
	if event.DateEnd != nil {
		merged.DateEnd = event.DateEnd.Format(timestampLayout)
	}
	return merged
}
