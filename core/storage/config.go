package storage

// Config holds configuration for the MinIO publish target.
type Config struct {
	// Endpoint is host:port of the S3-compatible service. A scheme prefix is stripped.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL connects over TLS.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket the site is published to.
	Bucket string `mapstructure:"bucket" default:"catalog"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, TLS handshakes and response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
