package sources

// Config represents a complete source configuration
type Config struct {
	Source   Info     `yaml:"source"`
	Settings Settings `yaml:"settings"`
	Defaults Defaults `yaml:"defaults"`
}

// Info contains basic source information
type Info struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
}

// Settings contains source processing settings
type Settings struct {
	Enabled bool     `yaml:"enabled"`
	Timeout int      `yaml:"timeout"` // seconds
	Paths   []string `yaml:"paths"`
}

// Defaults contains fallback field values applied to records of this source
type Defaults struct {
	Location string `yaml:"location"`
	Category string `yaml:"category"`
	City     string `yaml:"city"`
}
