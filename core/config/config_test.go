package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "minio", cfg.Publish.Target)
	assert.Equal(t, 1.0, cfg.Publish.WritesPerSecond)
	assert.Equal(t, "watch", cfg.Layout.MovieDir)
	assert.Equal(t, "series", cfg.Layout.SeriesDir)
	assert.Equal(t, "index.html", cfg.Layout.IndexPath)
	assert.Equal(t, "meta_cache.json", cfg.Layout.CachePath)
	assert.Equal(t, "detect", cfg.Sync.ContainerPolicy)
	assert.Equal(t, "parse", cfg.Enrich.Normalizer)
	assert.Equal(t, 100, cfg.Listing.MaxResults)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("PUBLISH_TARGET", "github")
	t.Setenv("PUBLISH_GITHUB_REPOSITORY", "acme/site")
	t.Setenv("SYNC_CONTAINER_POLICY", "always")
	t.Setenv("ENRICH_WORKERS", "4")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "github", cfg.Publish.Target)
	assert.Equal(t, "acme/site", cfg.Publish.GitHub.Repository)
	assert.Equal(t, "always", cfg.Sync.ContainerPolicy)
	assert.Equal(t, 4, cfg.Enrich.Workers)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LISTING_API_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LISTING_API_KEY") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Listing.APIKey)
}

func TestBindValues_RegistersNestedKeys(t *testing.T) {
	v := viper.New()
	bindValues(v, Config{}, "")

	assert.True(t, v.IsSet("publish.github.token"))
	assert.True(t, v.IsSet("storage.bucket"))
	assert.Equal(t, "catalog", v.GetString("storage.bucket"))
}
