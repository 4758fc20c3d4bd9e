package listing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL, APIKey: "secret", MaxResults: 50, TimeoutSeconds: 2})
	require.NoError(t, err)
	return client
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(Config{BaseURL: "https://example.invalid"})
	assert.Error(t, err)
}

func TestList_TopLevel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resources", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
		assert.Empty(t, r.URL.Query().Get("folderId"))
		_, _ = w.Write([]byte(`{"items":[
			{"id":"m1","name":"Movie.One.2021.mp4","isDir":false},
			{"name":"orphan.mp4"},
			{"id":"../series/s1","name":"escape.mp4"},
			{"id":"a\\b","name":"backslash.mp4"},
			{"id":"s1","name":"Show Folder","isDir":true}
		]}`))
	})

	items, err := client.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []Item{
		{ID: "m1", RawName: "Movie.One.2021.mp4"},
		{ID: "s1", RawName: "Show Folder", IsContainer: true},
	}, items)
}

func TestList_Container(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s1", r.URL.Query().Get("folderId"))
		_, _ = w.Write([]byte(`{"items":[{"id":"e2","name":"Ep 2"},{"id":"e1","name":"Ep 1"}]}`))
	})

	items, err := client.List(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "e2", items[0].ID)
}

func TestList_Failures(t *testing.T) {
	t.Run("Status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		})

		_, err := client.List(context.Background(), "")
		assert.ErrorIs(t, err, ErrUnavailable)
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		})

		_, err := client.List(context.Background(), "")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("Timeout", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})
		client.httpClient.Timeout = 20 * time.Millisecond

		_, err := client.List(context.Background(), "")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestEmbedURL(t *testing.T) {
	assert.Equal(t, "https://abyss.to/e/m1", EmbedURL("https://abyss.to/e/", "m1"))
}
