package database

import (
	"context"

	"github.com/sebastiankulla/bielefeld-events/app/scraper"
)

// EventRepository handles persistence of scraped events. Upserts are
// idempotent and keyed by the natural identity (title, date_start, source),
// so the write path stays safe under concurrent workers.
type EventRepository interface {
	// UpsertEvents inserts or updates records. Invalid records are dropped
	// and per-record failures are logged without aborting the batch; the
	// returned count covers successfully processed records only.
	UpsertEvents(ctx context.Context, events []scraper.Event) (int, error)

	// GetFutureEvents returns events starting today or later, ordered
	// ascending by start date and insertion order.
	GetFutureEvents(ctx context.Context) ([]Event, error)

	// GetCategories returns distinct non-empty categories of future events,
	// sorted ascending.
	GetCategories(ctx context.Context) ([]string, error)

	// GetLocations returns distinct non-empty locations of future events,
	// sorted ascending.
	GetLocations(ctx context.Context) ([]string, error)

	// GetEventCount returns the total number of stored events.
	GetEventCount(ctx context.Context) (int, error)

	// GetSourceCounts returns the number of stored events per source.
	GetSourceCounts(ctx context.Context) (map[string]int, error)
}
