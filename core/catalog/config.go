package catalog

// Config holds the artifact layout on the publish target.
type Config struct {
	// MovieDir holds leaf pages.
	MovieDir string `mapstructure:"movie_dir" default:"watch"`
	// SeriesDir holds container pages.
	SeriesDir string `mapstructure:"series_dir" default:"series"`
	// IndexPath is the master index artifact.
	IndexPath string `mapstructure:"index_path" default:"index.html"`
	// CachePath is the enrichment cache record.
	CachePath string `mapstructure:"cache_path" default:"meta_cache.json"`
}
