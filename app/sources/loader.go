package sources

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Loader handles loading and validation of source configurations
type Loader struct {
	sourcesDir string
}

// NewLoader creates a new configuration loader. When sourcesDir is empty the
// embedded default configurations are used.
func NewLoader(sourcesDir string) *Loader {
	return &Loader{sourcesDir: sourcesDir}
}

// LoadAll loads all YAML configuration files, sorted by source ID so that
// processing order is stable across runs.
func (l *Loader) LoadAll() ([]*Config, error) {
	var configs []*Config
	var err error

	if l.sourcesDir == "" {
		configs, err = l.loadEmbedded()
	} else {
		configs, err = l.loadDir()
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Source.ID < configs[j].Source.ID
	})

	return configs, nil
}

func (l *Loader) loadDir() ([]*Config, error) {
	if _, err := os.Stat(l.sourcesDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("sources directory does not exist: %s", l.sourcesDir)
	}

	files, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	var configs []*Config
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		config, err := l.parse(data)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		configs = append(configs, config)
		slog.Debug("Loaded source configuration", "file", file, "source", config.Source.ID)
	}

	return configs, nil
}

func (l *Loader) loadEmbedded() ([]*Config, error) {
	entries, err := fs.ReadDir(defaultsFS, "defaults")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded defaults: %w", err)
	}

	var configs []*Config
	for _, entry := range entries {
		data, err := defaultsFS.ReadFile("defaults/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded %s: %w", entry.Name(), err)
		}

		config, err := l.parse(data)
		if err != nil {
			return nil, fmt.Errorf("error loading embedded %s: %w", entry.Name(), err)
		}

		configs = append(configs, config)
	}

	return configs, nil
}

func (l *Loader) parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	if err := l.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults applies default values to configuration
func (l *Loader) setDefaults(config *Config) {
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30 // seconds
	}
	if config.Defaults.City == "" {
		config.Defaults.City = "Bielefeld"
	}
}

// validate validates the configuration
func (l *Loader) validate(config *Config) error {
	if config.Source.ID == "" {
		return fmt.Errorf("source ID is required")
	}
	if config.Source.BaseURL == "" {
		return fmt.Errorf("source base URL is required")
	}
	if config.Source.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if len(config.Settings.Paths) == 0 {
		return fmt.Errorf("at least one path is required")
	}
	if config.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}
