package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sebastiankulla/bielefeld-events/app/scraper"
)

// timestampLayout stores timestamps as local wall-clock text. The format
// sorts lexicographically in chronological order, which the future-date
// filter relies on.
const timestampLayout = "2006-01-02T15:04:05"

var _ EventRepository = (*eventRepository)(nil)

type eventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) UpsertEvents(ctx context.Context, events []scraper.Event) (int, error) {
	count := 0
	for _, event := range events {
		if !event.Valid() {
			slog.Debug("Dropping invalid event record", "source", event.Source, "title", event.Title)
			continue
		}

		var dateEnd sql.NullString
		if event.DateEnd != nil {
			dateEnd = sql.NullString{String: event.DateEnd.Format(timestampLayout), Valid: true}
		}

		_, err := r.db.ExecContext(ctx, `
			INSERT INTO events (
				title, date_start, date_end, description, location,
				city, category, image_url, url, price, source, tags
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(title, date_start, source) DO UPDATE SET
				description = excluded.description,
				location = excluded.location,
				category = excluded.category,
				image_url = excluded.image_url,
				url = excluded.url,
				price = excluded.price,
				tags = excluded.tags,
				scraped_at = datetime('now')
		`, event.Title, event.DateStart.Format(timestampLayout), dateEnd,
			event.Description, event.Location, event.City, event.Category,
			event.ImageURL, event.URL, event.Price, event.Source,
			strings.Join(event.Tags, ","))

		if err != nil {
			slog.Warn("Failed to upsert event", "source", event.Source, "title", event.Title, "error", err)
			continue
		}
		count++
	}

	return count, nil
}

func (r *eventRepository) GetFutureEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, date_start, date_end, description, location,
		       city, category, image_url, url, price, source, tags, scraped_at
		FROM events
		WHERE date_start >= ?
		ORDER BY date_start ASC, id ASC
	`, time.Now().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get future events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

func (r *eventRepository) GetCategories(ctx context.Context) ([]string, error) {
	return r.distinctValues(ctx, "category")
}

func (r *eventRepository) GetLocations(ctx context.Context) ([]string, error) {
	return r.distinctValues(ctx, "location")
}

func (r *eventRepository) distinctValues(ctx context.Context, column string) ([]string, error) {
	// column is one of the fixed names above, never user input
	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM events
		WHERE %s != '' AND date_start >= ?
		ORDER BY %s ASC
	`, column, column, column)

	rows, err := r.db.QueryContext(ctx, query, time.Now().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct %s values: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", column, err)
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", column, err)
	}

	return values, nil
}

func (r *eventRepository) GetEventCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get event count: %w", err)
	}
	return count, nil
}

func (r *eventRepository) GetSourceCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT source, COUNT(*) FROM events GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("failed to get source counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan source count row: %w", err)
		}
		counts[source] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source count rows: %w", err)
	}

	return counts, nil
}

func scanEvent(rows *sql.Rows) (Event, error) {
	var event Event
	var dateStart, scrapedAt, tags string
	var dateEnd sql.NullString

	err := rows.Scan(&event.ID, &event.Title, &dateStart, &dateEnd,
		&event.Description, &event.Location, &event.City, &event.Category,
		&event.ImageURL, &event.URL, &event.Price, &event.Source,
		&tags, &scrapedAt)
	if err != nil {
		return Event{}, fmt.Errorf("failed to scan event row: %w", err)
	}

	event.DateStart, err = parseTimestamp(dateStart)
	if err != nil {
		return Event{}, fmt.Errorf("invalid date_start %q: %w", dateStart, err)
	}
	if dateEnd.Valid {
		end, err := parseTimestamp(dateEnd.String)
		if err != nil {
			return Event{}, fmt.Errorf("invalid date_end %q: %w", dateEnd.String, err)
		}
		event.DateEnd = &end
	}
	if t, err := parseTimestamp(scrapedAt); err == nil {
		event.ScrapedAt = t
	}
	if tags != "" {
		event.Tags = strings.Split(tags, ",")
	}

	return event, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{timestampLayout, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
