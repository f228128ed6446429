package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sebastiankulla/bielefeld-events/app/api"
	"github.com/sebastiankulla/bielefeld-events/app/cfg"
	"github.com/sebastiankulla/bielefeld-events/app/database"
	"github.com/sebastiankulla/bielefeld-events/app/publish"
	"github.com/sebastiankulla/bielefeld-events/app/scraper"
	"github.com/sebastiankulla/bielefeld-events/app/sources"
	"github.com/sebastiankulla/bielefeld-events/app/tasks"
)

func main() {
	appCfg, args, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	command := "scrape"
	if len(args) > 0 {
		command = args[0]
	}

	slog.Info("Starting Bielefeld Events", "version", appCfg.Version, "command", command)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	eventRepo := database.NewEventRepository(db)
	generator := publish.NewGenerator(eventRepo, appCfg.SiteDir)

	switch command {
	case "scrape":
		runScrape(appCfg, eventRepo, generator)
	case "publish":
		runPublish(generator)
	case "serve":
		runServe(appCfg, eventRepo, generator)
	default:
		log.Fatalf("Unknown command: %s (expected scrape, publish or serve)", command)
	}
}

// runScrape executes the full pipeline once: every enabled source is scraped
// in sequence, results are stored, and the static site is regenerated. A
// failing source is logged and skipped so one broken website never blocks
// the rest.
func runScrape(appCfg *cfg.Cfg, eventRepo database.EventRepository, generator *publish.Generator) {
	srcs := loadSources(appCfg)
	client := scraper.NewClient()
	ctx := context.Background()

	succeeded := 0
	failed := 0
	totalStored := 0

	for _, source := range srcs {
		start := time.Now()

		events, err := source.Scrape(ctx, client)
		if err != nil {
			slog.Error("Source scrape failed", "source", source.Name(), "error", err)
			failed++
			continue
		}

		stored, err := eventRepo.UpsertEvents(ctx, events)
		if err != nil {
			slog.Error("Failed to store events", "source", source.Name(), "error", err)
			failed++
			continue
		}

		slog.Info("Source scraped", "source", source.Name(), "duration", time.Since(start), "scraped", len(events), "stored", stored)
		succeeded++
		totalStored += stored
	}

	slog.Info("Scrape run finished", "sources", len(srcs), "succeeded", succeeded, "failed", failed, "stored", totalStored)

	runPublish(generator)
}

func runPublish(generator *publish.Generator) {
	summary, err := generator.Run(context.Background())
	if err != nil {
		log.Fatalf("Failed to publish site: %v", err)
	}
	slog.Info("Site published", "events", summary.Events, "categories", summary.Categories, "sources", summary.Sources)
}

// runServe starts the background scheduler and the HTTP server, then blocks
// until an interrupt arrives.
func runServe(appCfg *cfg.Cfg, eventRepo database.EventRepository, generator *publish.Generator) {
	srcs := loadSources(appCfg)
	client := scraper.NewClient()

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(srcs, client, eventRepo, generator)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(eventRepo, generator, scheduler, appCfg.SiteDir)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

func loadSources(appCfg *cfg.Cfg) []scraper.Source {
	loader := sources.NewLoader(appCfg.SourcesDir)
	configs, err := loader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load source configurations: %v", err)
	}

	srcs := scraper.Build(configs)
	slog.Info("Loaded source configurations", "configured", len(configs), "enabled", len(srcs))
	return srcs
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
