package server

// Config holds configuration for the status HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// ReadTimeoutSeconds bounds reading a request.
	ReadTimeoutSeconds int `mapstructure:"read_timeout_seconds" default:"15"`
}

// Address returns the listen address for Port.
func (c Config) Address() string {
	if c.Port == "" {
		return ":8080"
	}
	return ":" + c.Port
}

// AuthEnabled reports whether requests must present the API key.
func (c Config) AuthEnabled() bool {
	return c.ApiKey != ""
}
