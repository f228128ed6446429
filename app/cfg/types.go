package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SourcesDir string
	SiteDir    string
	Port       string

	// Scraping configuration
	HTTPTimeout       int
	RetryCount        int
	WorkerCount       int
	SchedulerInterval int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
