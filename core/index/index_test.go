package index

import (
	"errors"
	"strings"
	"testing"

	"catalog-sync/core/catalog"
	"catalog-sync/core/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	layout := catalog.NewLayout(catalog.Config{})
	entries := []catalog.Entry{
		{ID: "m1", Title: "Movie One", Kind: catalog.Movie, ArtifactPath: layout.ArtifactPath(catalog.Movie, "m1")},
		{ID: "s1", Title: "Series One", Kind: catalog.Series, ArtifactPath: layout.ArtifactPath(catalog.Series, "s1")},
	}
	b := NewBuilder(render.New("https://abyss.to/e"), layout.IndexPath())

	op, err := b.Build(entries)
	require.NoError(t, err)
	assert.Equal(t, "index.html", op.Path)
	assert.True(t, op.IsCreate())

	html := string(op.Content)
	assert.Less(t, strings.Index(html, "watch/m1.html"), strings.Index(html, "series/s1.html"))
	assert.Contains(t, html, "Movie: 1 · Series: 1")

	again, err := b.Build(entries)
	require.NoError(t, err)
	assert.Equal(t, op.Content, again.Content)
}

type failingRenderer struct{}

func (failingRenderer) Index([]catalog.Entry) ([]byte, error) { return nil, errors.New("boom") }

func TestBuild_RenderError(t *testing.T) {
	_, err := NewBuilder(failingRenderer{}, "index.html").Build(nil)
	assert.ErrorContains(t, err, "boom")
}
