package listing

// Config holds configuration for the resource-listing service.
type Config struct {
	// BaseURL is the API root, without trailing slash.
	BaseURL string `mapstructure:"base_url" default:"https://api.abyss.to/v1"`
	// APIKey authenticates listing requests.
	APIKey string `mapstructure:"api_key" default:""`
	// MaxResults caps the number of records per listing call.
	MaxResults int `mapstructure:"max_results" default:"100"`
	// EmbedBaseURL is the player URL prefix for a leaf item id.
	EmbedBaseURL string `mapstructure:"embed_base_url" default:"https://abyss.to/e"`
	// TimeoutSeconds bounds every listing call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"20"`
}
