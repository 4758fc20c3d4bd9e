package config

import (
	"reflect"
	"strings"

	"catalog-sync/core/catalog"
	"catalog-sync/core/database"
	"catalog-sync/core/enrich"
	"catalog-sync/core/listing"
	"catalog-sync/core/logger"
	"catalog-sync/core/pipeline"
	"catalog-sync/core/publish"
	"catalog-sync/core/server"
	"catalog-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Listing holds configuration for the remote resource listing.
	Listing listing.Config `mapstructure:"listing"`
	// Enrich holds configuration for title normalisation and artwork lookups.
	Enrich enrich.Config `mapstructure:"enrich"`
	// Publish selects and configures the publish target.
	Publish publish.Config `mapstructure:"publish"`
	// Storage holds configuration for the MinIO publish target.
	Storage storage.Config `mapstructure:"storage"`
	// Layout places artifacts on the publish target.
	Layout catalog.Config `mapstructure:"layout"`
	// Sync holds run-level settings.
	Sync pipeline.Config `mapstructure:"sync"`
	// Database holds configuration for the optional run ledger.
	Database database.Config `mapstructure:"database"`
	// Server holds configuration for the status HTTP server.
	Server server.Config `mapstructure:"server"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// PUBLISH_GITHUB_TOKEN -> publish.github.token
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
