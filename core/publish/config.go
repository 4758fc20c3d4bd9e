package publish

// Target names accepted in Config.Target.
const (
	TargetMinio  = "minio"
	TargetGitHub = "github"
	TargetMemory = "memory"
)

// Config holds configuration for the publish target.
type Config struct {
	// Target selects the backend: minio, github or memory.
	Target string `mapstructure:"target" default:"minio"`
	// WritesPerSecond paces writes; 0 disables pacing.
	WritesPerSecond float64 `mapstructure:"writes_per_second" default:"1"`
	// TimeoutSeconds bounds every read, write and listing call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// GitHub configures the github target.
	GitHub GitHubConfig `mapstructure:"github"`
}

// GitHubConfig configures publishing to a repository through the contents API.
type GitHubConfig struct {
	// Token is a personal access token with contents write permission.
	Token string `mapstructure:"token" default:""`
	// Repository is "owner/name".
	Repository string `mapstructure:"repository" default:""`
	// Branch is the branch to commit to; empty uses the default branch.
	Branch string `mapstructure:"branch" default:""`
	// BaseURL overrides the API root for GitHub Enterprise.
	BaseURL string `mapstructure:"base_url" default:""`
}
