package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sebastiankulla/bielefeld-events/app/database"
	"github.com/sebastiankulla/bielefeld-events/app/scraper"
)

type ScrapeSourceTask struct {
	Task
	source    scraper.Source
	client    *scraper.Client
	eventRepo database.EventRepository
}

func NewScrapeSourceTask(source scraper.Source, client *scraper.Client, eventRepo database.EventRepository) *ScrapeSourceTask {
	return &ScrapeSourceTask{
		Task:      NewTask(TaskTypeScrapeSource, source.Name()),
		source:    source,
		client:    client,
		eventRepo: eventRepo,
	}
}

func (t *ScrapeSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	events, err := t.source.Scrape(ctx, t.client)
	if err != nil {
		return fmt.Errorf("failed to scrape source: %w", err)
	}

	stored, err := t.eventRepo.UpsertEvents(ctx, events)
	if err != nil {
		return fmt.Errorf("failed to store events: %w", err)
	}

	slog.Info("Task completed",
		"type", "ScrapeSource",
		"source", t.SourceID,
		"duration", t.GetDuration(),
		"scraped", len(events),
		"stored", stored)

	return nil
}
