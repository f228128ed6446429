package api

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sebastiankulla/bielefeld-events/app/database"
	"github.com/sebastiankulla/bielefeld-events/app/dedup"
	"github.com/sebastiankulla/bielefeld-events/app/publish"
	"github.com/sebastiankulla/bielefeld-events/app/tasks"
)

func NewHandler(eventRepo database.EventRepository, generator *publish.Generator,
	scheduler tasks.TaskSchedulerInterface, siteDir string) *Handler {
	return &Handler{
		eventRepo: eventRepo,
		generator: generator,
		scheduler: scheduler,
		siteDir:   siteDir,
	}
}

// GetEvents returns the merged catalog of future events. Duplicates across
// sources are reconciled at read time, so the response always reflects the
// current store.
func (h *Handler) GetEvents(c *gin.Context) {
	stored, err := h.eventRepo.GetFutureEvents(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	merged := dedup.Merge(stored)
	merged = filterEvents(merged, c.Query("category"), c.Query("location"), c.Query("q"))

	c.JSON(http.StatusOK, gin.H{
		"events": merged,
		"total":  len(merged),
	})
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.eventRepo.GetCategories(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetLocations(c *gin.Context) {
	locations, err := h.eventRepo.GetLocations(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_locations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if eventCount, err := h.eventRepo.GetEventCount(c.Request.Context()); err == nil {
		health["events"] = eventCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if eventCount, err := h.eventRepo.GetEventCount(c.Request.Context()); err == nil {
		stats["total_events"] = eventCount
	}

	if sourceCounts, err := h.eventRepo.GetSourceCounts(c.Request.Context()); err == nil {
		stats["sources"] = sourceCounts
	}

	c.JSON(http.StatusOK, stats)
}

// APIPublish regenerates the static site in the background.
func (h *Handler) APIPublish(c *gin.Context) {
	task := tasks.NewPublishSiteTask(h.generator)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing publish task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue publish task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Publish task enqueued successfully",
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

func (h *Handler) GetSite(c *gin.Context) {
	c.File(filepath.Join(h.siteDir, "index.html"))
}

func (h *Handler) GetSiteCatalog(c *gin.Context) {
	c.File(filepath.Join(h.siteDir, "events.json"))
}

func filterEvents(events []dedup.MergedEvent, category, location, query string) []dedup.MergedEvent {
	if category == "" && location == "" && query == "" {
		return events
	}

	query = strings.ToLower(query)
	filtered := make([]dedup.MergedEvent, 0, len(events))
	for _, event := range events {
		if category != "" && event.Category != category {
			continue
		}
		if location != "" && event.Location != location {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(event.Title), query) &&
			!strings.Contains(strings.ToLower(event.Description), query) {
			continue
		}
		filtered = append(filtered, event)
	}
	return filtered
}
