package pipeline

// Config holds configuration for synchronisation runs.
type Config struct {
	// LockFile guards against concurrent runs on one host.
	LockFile string `mapstructure:"lock_file" default:"catalog-sync.lock"`
	// ContainerPolicy is detect or always.
	ContainerPolicy string `mapstructure:"container_policy" default:"detect"`
	// HistoryLimit is the number of runs listed by the runs command.
	HistoryLimit int `mapstructure:"history_limit" default:"20"`
}
