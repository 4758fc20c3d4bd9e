package enrich

// Config holds configuration for metadata enrichment.
type Config struct {
	// Normalizer selects the title normaliser: "parse" (local release-name
	// parser) or "tmdb" (TMDB search).
	Normalizer string `mapstructure:"normalizer" default:"parse"`
	// TMDBAPIKey enables poster and rating lookups when set.
	TMDBAPIKey string `mapstructure:"tmdb_api_key" default:""`
	// TMDBBaseURL is the TMDB API root.
	TMDBBaseURL string `mapstructure:"tmdb_base_url" default:"https://api.themoviedb.org/3"`
	// ImageBaseURL is the TMDB image root; poster and backdrop paths are appended.
	ImageBaseURL string `mapstructure:"image_base_url" default:"https://image.tmdb.org/t/p"`
	// Language is passed to TMDB searches.
	Language string `mapstructure:"language" default:"en-US"`
	// PlaceholderBaseURL builds the fallback poster for a title.
	PlaceholderBaseURL string `mapstructure:"placeholder_base_url" default:"https://placehold.co/300x450?text="`
	// Workers bounds concurrent lookups during prefetch; 1 disables prefetch.
	Workers int `mapstructure:"workers" default:"1"`
	// TimeoutSeconds bounds every collaborator call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// BreakerFailures opens the lookup circuit after this many consecutive failures.
	BreakerFailures int `mapstructure:"breaker_failures" default:"5"`
	// BreakerOpenSeconds keeps the circuit open before probing again.
	BreakerOpenSeconds int `mapstructure:"breaker_open_seconds" default:"60"`
}
