package publish

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebastiankulla/bielefeld-events/app/database"
	"github.com/sebastiankulla/bielefeld-events/app/dedup"
	"github.com/sebastiankulla/bielefeld-events/app/scraper"
)

type stubRepo struct {
	events []database.Event
}

func (r *stubRepo) UpsertEvents(ctx context.Context, events []scraper.Event) (int, error) {
	return 0, nil
}

func (r *stubRepo) GetFutureEvents(ctx context.Context) ([]database.Event, error) {
	return r.events, nil
}

func (r *stubRepo) GetCategories(ctx context.Context) ([]string, error) { return nil, nil }
func (r *stubRepo) GetLocations(ctx context.Context) ([]string, error)  { return nil, nil }
func (r *stubRepo) GetEventCount(ctx context.Context) (int, error)      { return len(r.events), nil }
func (r *stubRepo) GetSourceCounts(ctx context.Context) (map[string]int, error) {
	return nil, nil
}

func TestGenerator_Run(t *testing.T) {
	siteDir := t.TempDir()

	start := time.Date(2099, time.May, 10, 20, 0, 0, 0, time.UTC)
	repo := &stubRepo{events: []database.Event{
		{Title: "Jazz Night", Source: "stereo", DateStart: start, Category: "Party", URL: "https://stereo.de/jazz"},
		{Title: "JAZZ NIGHT", Source: "bielefeld_jetzt", DateStart: start, Category: "Party"},
		{Title: "Lesung", Source: "buo", DateStart: start.AddDate(0, 0, 1), Category: "Kultur"},
	}}

	generator := NewGenerator(repo, siteDir)
	summary, err := generator.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if summary.Events != 2 {
		t.Errorf("Expected 2 merged events, got %d", summary.Events)
	}
	if summary.Categories != 2 {
		t.Errorf("Expected 2 categories, got %d", summary.Categories)
	}

	data, err := os.ReadFile(filepath.Join(siteDir, "events.json"))
	if err != nil {
		t.Fatal(err)
	}

	var catalog []dedup.MergedEvent
	if err := json.Unmarshal(data, &catalog); err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 2 {
		t.Fatalf("Expected 2 events in catalog, got %d", len(catalog))
	}
	if catalog[0].Title != "Jazz Night" {
		t.Errorf("Unexpected first event: %q", catalog[0].Title)
	}
	if len(catalog[0].Sources) != 2 {
		t.Errorf("Expected merged provenance, got %v", catalog[0].Sources)
	}

	html, err := os.ReadFile(filepath.Join(siteDir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "events.json") {
		t.Error("Expected the site shell to reference events.json")
	}
}

func TestGenerator_Run_EmptyStore(t *testing.T) {
	siteDir := t.TempDir()

	generator := NewGenerator(&stubRepo{}, siteDir)
	summary, err := generator.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if summary.Events != 0 {
		t.Errorf("Expected 0 events, got %d", summary.Events)
	}

	data, err := os.ReadFile(filepath.Join(siteDir, "events.json"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("Expected an empty JSON array, got %q", data)
	}
}

func TestGenerator_Run_CreatesSiteDir(t *testing.T) {
	siteDir := filepath.Join(t.TempDir(), "nested", "site")

	generator := NewGenerator(&stubRepo{}, siteDir)
	if _, err := generator.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(siteDir, "index.html")); err != nil {
		t.Errorf("Expected index.html to exist: %v", err)
	}
}
