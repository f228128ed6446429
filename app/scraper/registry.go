package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/sebastiankulla/bielefeld-events/app/sources"
)

// Source converts fetched documents of one website into raw event records.
// Implementations must not panic across the boundary; any failure is reported
// as an error and treated as zero records by the caller.
type Source interface {
	Name() string
	Scrape(ctx context.Context, client *Client) ([]Event, error)
}

var constructors = map[string]func(*sources.Config) Source{
	"bielefeld_jetzt":     newBielefeldJetzt,
	"bielefeld_marketing": newBielefeldMarketing,
	"owl_journal":         newOwlJournal,
	"nw_events":           newNwEvents,
	"buo":                 newBuo,
	"lokschuppen":         newLokschuppen,
	"nrzp":                newNrzp,
	"prime":               newPrime,
	"stereo":              newStereo,
	"bunker_ulmenwall":    newBunkerUlmenwall,
	"kulturamt":           newKulturamt,
}

// timeoutSource bounds a scrape by the source's configured timeout, covering
// all requests the extractor issues, not just a single one.
type timeoutSource struct {
	Source
	timeout time.Duration
}

func (t *timeoutSource) Scrape(ctx context.Context, client *Client) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Source.Scrape(ctx, client)
}

// Build constructs sources from their configurations. Disabled sources are
// skipped; unknown source IDs are logged and skipped.
func Build(configs []*sources.Config) []Source {
	var built []Source
	for _, config := range configs {
		if !config.Settings.Enabled {
			slog.Debug("Source disabled, skipping", "source", config.Source.ID)
			continue
		}
		constructor, ok := constructors[config.Source.ID]
		if !ok {
			slog.Warn("No extractor registered for source", "source", config.Source.ID)
			continue
		}
		src := constructor(config)
		if config.Settings.Timeout > 0 {
			src = &timeoutSource{Source: src, timeout: time.Duration(config.Settings.Timeout) * time.Second}
		}
		built = append(built, src)
	}
	return built
}

// dedupKey identifies one occurrence within a single source: pages of the
// same site frequently repeat listings.
func dedupKey(e Event) string {
	return e.Title + "|" + e.DateStart.Format("2006-01-02")
}

// finish applies source defaults and drops invalid records.
func finish(events []Event, defaults sources.Defaults) []Event {
	valid := make([]Event, 0, len(events))
	for _, e := range events {
		applyDefaults(&e, defaults.Location, defaults.Category, defaults.City)
		if e.Valid() {
			valid = append(valid, e)
		}
	}
	return valid
}
