package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAll_FromDirectory(t *testing.T) {
	tempDir := t.TempDir()

	content := `
source:
  id: "test_source"
  name: "Test Source"
  base_url: "https://example.de"

settings:
  enabled: true
  timeout: 15
  paths:
    - "/events"
    - "/termine"

defaults:
  location: "Forum"
  category: "Party"
`

	err := os.WriteFile(filepath.Join(tempDir, "test.yaml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(configs) != 1 {
		t.Fatalf("Expected 1 config, got %d", len(configs))
	}

	config := configs[0]
	if config.Source.ID != "test_source" {
		t.Errorf("Expected ID 'test_source', got %q", config.Source.ID)
	}
	if config.Source.BaseURL != "https://example.de" {
		t.Errorf("Expected base URL 'https://example.de', got %q", config.Source.BaseURL)
	}
	if !config.Settings.Enabled {
		t.Error("Expected source to be enabled")
	}
	if config.Settings.Timeout != 15 {
		t.Errorf("Expected timeout 15, got %d", config.Settings.Timeout)
	}
	if len(config.Settings.Paths) != 2 {
		t.Errorf("Expected 2 paths, got %d", len(config.Settings.Paths))
	}
	if config.Defaults.Location != "Forum" {
		t.Errorf("Expected default location 'Forum', got %q", config.Defaults.Location)
	}
}

func TestLoadAll_AppliesDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
source:
  id: "minimal"
  name: "Minimal"
  base_url: "https://example.de"

settings:
  enabled: true
  paths:
    - "/events"
`

	err := os.WriteFile(filepath.Join(tempDir, "minimal.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	config := configs[0]
	if config.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", config.Settings.Timeout)
	}
	if config.Defaults.City != "Bielefeld" {
		t.Errorf("Expected default city 'Bielefeld', got %q", config.Defaults.City)
	}
}

func TestLoadAll_SortedBySourceID(t *testing.T) {
	tempDir := t.TempDir()

	for _, id := range []string{"zebra", "alpha"} {
		content := `
source:
  id: "` + id + `"
  name: "` + id + `"
  base_url: "https://example.de"
settings:
  enabled: true
  paths:
    - "/events"
`
		if err := os.WriteFile(filepath.Join(tempDir, id+".yaml"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	loader := NewLoader(tempDir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}
	if configs[0].Source.ID != "alpha" || configs[1].Source.ID != "zebra" {
		t.Errorf("Expected configs sorted by ID, got %q then %q", configs[0].Source.ID, configs[1].Source.ID)
	}
}

func TestLoadAll_InvalidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
source:
  name: "Missing ID"
  base_url: "https://example.de"
`

	if err := os.WriteFile(filepath.Join(tempDir, "bad.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	if _, err := loader.LoadAll(); err == nil {
		t.Error("Expected an error for a config without a source ID")
	}
}

func TestLoadAll_RejectsMissingPaths(t *testing.T) {
	tempDir := t.TempDir()

	// Every extractor fetches its configured paths, so a config without any
	// must not reach the scrape stage.
	content := `
source:
  id: "no_paths"
  name: "No Paths"
  base_url: "https://example.de"

settings:
  enabled: true
`

	if err := os.WriteFile(filepath.Join(tempDir, "no_paths.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(tempDir)
	if _, err := loader.LoadAll(); err == nil {
		t.Error("Expected an error for a config without paths")
	}
}

func TestLoadAll_MissingDirectory(t *testing.T) {
	loader := NewLoader("/nonexistent/path")
	if _, err := loader.LoadAll(); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}

func TestLoadAll_EmbeddedDefaults(t *testing.T) {
	loader := NewLoader("")
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(configs) != 11 {
		t.Fatalf("Expected 11 embedded source configurations, got %d", len(configs))
	}

	for _, config := range configs {
		if config.Source.ID == "" || config.Source.BaseURL == "" {
			t.Errorf("Embedded config incomplete: %+v", config.Source)
		}
		if config.Defaults.City == "" {
			t.Errorf("Embedded config %q missing city default", config.Source.ID)
		}
	}
}
