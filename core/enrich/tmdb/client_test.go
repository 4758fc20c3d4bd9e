package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMulti(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		assert.Equal(t, "Movie One", r.URL.Query().Get("query"))
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Movie One","release_date":"2021-03-01","media_type":"movie","poster_path":"/p.jpg","vote_average":7.4,"vote_count":10}],"total_pages":1,"total_results":1}`))
	}))
	defer srv.Close()

	client, err := New("key", srv.URL, "en-US")
	require.NoError(t, err)

	resp, err := client.SearchMulti(context.Background(), "Movie One")
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "2021", resp.Results[0].Year())
	assert.Equal(t, "/p.jpg", resp.Results[0].PosterPath)
}

func TestSearchMulti_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := New("key", srv.URL, "")
	require.NoError(t, err)

	_, err = client.SearchMulti(context.Background(), "Anything")
	assert.Error(t, err)

	_, err = client.SearchMulti(context.Background(), "  ")
	assert.Error(t, err)

	_, err = New("", srv.URL, "")
	assert.Error(t, err)
}

func TestBestMatch(t *testing.T) {
	resp := &Response{Results: []Result{
		{Name: "Someone", MediaType: "person"},
		{Title: "Remake", ReleaseDate: "2019-01-01", MediaType: "movie"},
		{Title: "Original", ReleaseDate: "1999-05-05", MediaType: "movie"},
		{Name: "The Show", FirstAirDate: "2020-02-02", MediaType: "tv"},
	}}

	r, ok := BestMatch(resp, "1999")
	require.True(t, ok)
	assert.Equal(t, "Original", r.DisplayTitle())

	r, ok = BestMatch(resp, "")
	require.True(t, ok)
	assert.Equal(t, "Remake", r.DisplayTitle())

	_, ok = BestMatch(&Response{}, "")
	assert.False(t, ok)
}
