package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestSetAndGet(t *testing.T) {
	c := &Cfg{
		DBPath:            "./data/events.db",
		SourcesDir:        "",
		SiteDir:           "./site",
		Port:              "8080",
		HTTPTimeout:       30,
		RetryCount:        3,
		WorkerCount:       4,
		SchedulerInterval: 3600,
		UserAgent:         "Test Agent",
		Timezone:          "Europe/Berlin",
		Debug:             true,
		Version:           "test-version",
	}

	Set(c)

	got := Get()
	if got.DBPath != "./data/events.db" {
		t.Errorf("Expected DB path './data/events.db', got '%s'", got.DBPath)
	}
	if got.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", got.Port)
	}
	if got.HTTPTimeout != 30 {
		t.Errorf("Expected HTTP timeout 30, got %d", got.HTTPTimeout)
	}
	if got.WorkerCount != 4 {
		t.Errorf("Expected worker count 4, got %d", got.WorkerCount)
	}
	if got.SchedulerInterval != 3600 {
		t.Errorf("Expected scheduler interval 3600, got %d", got.SchedulerInterval)
	}
	if got.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", got.UserAgent)
	}
	if !got.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("Europe/Berlin"); err != nil {
		t.Errorf("Expected valid timezone to apply, got %v", err)
	}
	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected an error for an invalid timezone")
	}
	if err := applyTimezone(""); err != nil {
		t.Errorf("Expected empty timezone to be a no-op, got %v", err)
	}
}
