package publish

import (
	"context"
	"testing"

	"catalog-sync/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	target, err := Open(ctx, Config{Target: "memory"}, storage.Config{})
	require.NoError(t, err)
	assert.Equal(t, "memory", target.Name())

	target, err = Open(ctx, Config{Target: "GitHub", GitHub: GitHubConfig{
		Token:      "t",
		Repository: "owner/site",
		Branch:     "gh-pages",
		BaseURL:    "https://ghe.example.com/api/v3",
	}}, storage.Config{})
	require.NoError(t, err)
	gh, ok := target.(*GitHubTarget)
	require.True(t, ok)
	assert.Equal(t, "gh-pages", gh.branch)
	assert.Equal(t, "https://ghe.example.com/api/v3/", gh.client.BaseURL.String())

	_, err = Open(ctx, Config{Target: "github", GitHub: GitHubConfig{Repository: "invalid"}}, storage.Config{})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Target: "ftp"}, storage.Config{})
	assert.ErrorContains(t, err, "unknown publish target")
}
