// Package publish turns the stored catalog into the static site: a JSON
// array of merged events plus an HTML shell that renders it client-side.
package publish

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sebastiankulla/bielefeld-events/app/database"
	"github.com/sebastiankulla/bielefeld-events/app/dedup"
)

//go:embed template.html
var siteTemplate []byte

// Summary reports what a publish run produced.
type Summary struct {
	Events     int
	Categories int
	Sources    int
}

type Generator struct {
	repo    database.EventRepository
	siteDir string
}

func NewGenerator(repo database.EventRepository, siteDir string) *Generator {
	return &Generator{repo: repo, siteDir: siteDir}
}

// Run reads all future events, reconciles duplicates and writes events.json
// and index.html into the site directory. Merged events are a derived view:
// they are recomputed on every run and never persisted.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	if err := os.MkdirAll(g.siteDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create site directory: %w", err)
	}

	stored, err := g.repo.GetFutureEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	merged := dedup.Merge(stored)
	if duplicates := len(stored) - len(merged); duplicates > 0 {
		slog.Info("Deduplicated events", "duplicates", duplicates, "unique", len(merged))
	}

	if err := g.writeJSON(merged); err != nil {
		return nil, err
	}
	if err := g.writeHTML(); err != nil {
		return nil, err
	}

	return &Summary{
		Events:     len(merged),
		Categories: countDistinct(merged, func(e dedup.MergedEvent) string { return e.Category }),
		Sources:    countDistinct(merged, func(e dedup.MergedEvent) string { return e.Source }),
	}, nil
}

func (g *Generator) writeJSON(merged []dedup.MergedEvent) error {
	path := filepath.Join(g.siteDir, "events.json")

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Info("Written events catalog", "path", path, "events", len(merged))
	return nil
}

func (g *Generator) writeHTML() error {
	path := filepath.Join(g.siteDir, "index.html")
	if err := os.WriteFile(path, siteTemplate, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	slog.Info("Written site shell", "path", path)
	return nil
}

func countDistinct(events []dedup.MergedEvent, field func(dedup.MergedEvent) string) int {
	seen := make(map[string]bool)
	for _, event := range events {
		if value := field(event); value != "" {
			seen[value] = true
		}
	}
	return len(seen)
}
