package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/events.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" description:"Directory containing source configuration files (embedded defaults used when empty)"`
	SiteDir    string `long:"site-dir" env:"SITE_DIR" default:"./site" description:"Output directory for the generated static site"`
	Port       string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (serve command)"`

	// Scraping configuration
	HTTPTimeout       int `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30" description:"Per-request HTTP timeout in seconds"`
	RetryCount        int `long:"retry-count" env:"RETRY_COUNT" default:"3" description:"Retry count for transient HTTP failures"`
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of background workers for source processing (serve command)"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"3600" description:"Scheduler interval in seconds (serve command)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; BielefeldEvents/1.0; +https://github.com/sebastiankulla/bielefeld-events)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Europe/Berlin" description:"Timezone for timestamps (e.g., Europe/Berlin, UTC)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load parses environment variables and command-line flags. The remaining
// positional arguments (the command, if any) are returned to the caller.
func Load() (*Cfg, []string, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.Usage = "[OPTIONS] [scrape|publish|serve]"

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil, nil
			}
		}
		return nil, nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		SourcesDir:        raw.SourcesDir,
		SiteDir:           raw.SiteDir,
		Port:              raw.Port,
		HTTPTimeout:       raw.HTTPTimeout,
		RetryCount:        raw.RetryCount,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, args, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests.
func Set(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
