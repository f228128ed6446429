package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sebastiankulla/bielefeld-events/app/publish"
)

type PublishSiteTask struct {
	Task
	generator *publish.Generator
}

func NewPublishSiteTask(generator *publish.Generator) *PublishSiteTask {
	return &PublishSiteTask{
		Task:      NewTask(TaskTypePublishSite, "site"),
		generator: generator,
	}
}

func (t *PublishSiteTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	summary, err := t.generator.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish site: %w", err)
	}

	slog.Info("Task completed",
		"type", "PublishSite",
		"duration", t.GetDuration(),
		"events", summary.Events,
		"categories", summary.Categories,
		"sources", summary.Sources)

	return nil
}
