package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalog-sync/core/enrich/tmdb"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTMDBLookup(t *testing.T) {
	searcher := &fakeSearcher{resp: &tmdb.Response{Results: []tmdb.Result{
		{Title: "Movie One", ReleaseDate: "2020-01-01", MediaType: "movie", PosterPath: "/a.jpg", VoteAverage: 5},
		{Title: "Movie One", ReleaseDate: "2021-01-01", MediaType: "movie", PosterPath: "/b.jpg", BackdropPath: "/bd.jpg", VoteAverage: 7.2, VoteCount: 40},
	}}}
	l := NewTMDBLookup(searcher, "https://image.tmdb.org/t/p/")

	art, err := l.Lookup(context.Background(), "Movie One", "2021")
	require.NoError(t, err)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/b.jpg", art.PosterRef)
	assert.Equal(t, "https://image.tmdb.org/t/p/w1280/bd.jpg", art.BackdropRef)
	assert.Equal(t, KnownRating(7.2), art.Rating)

	art, err = l.Lookup(context.Background(), "Movie One", "")
	require.NoError(t, err)
	assert.False(t, art.Rating.Known, "no votes means unknown rating")

	searcher.resp = &tmdb.Response{}
	_, err = l.Lookup(context.Background(), "Nothing", "")
	assert.ErrorIs(t, err, ErrNoMatch)
}

type fakeLookup struct {
	art   Artwork
	err   error
	calls int
}

func (f *fakeLookup) Lookup(_ context.Context, _, _ string) (Artwork, error) {
	f.calls++
	return f.art, f.err
}

func TestBreakerLookup_OpensAfterFailures(t *testing.T) {
	next := &fakeLookup{err: errors.New("timeout")}
	b := NewBreakerLookup(next, 2, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := b.Lookup(context.Background(), "x", "")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Lookup(context.Background(), "x", "")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, next.calls)
}

func TestBreakerLookup_NoMatchIsNotFailure(t *testing.T) {
	next := &fakeLookup{err: ErrNoMatch}
	b := NewBreakerLookup(next, 1, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := b.Lookup(context.Background(), "x", "")
		assert.ErrorIs(t, err, ErrNoMatch)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, 3, next.calls)
}
