package enrich

import (
	"context"
	"errors"
	"testing"

	"catalog-sync/core/enrich/tmdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNormalizer(t *testing.T) {
	p := NewParseNormalizer()
	tests := []struct {
		raw   string
		title string
		year  string
	}{
		{"The.Matrix.1999.1080p.BluRay.x264.mkv", "The Matrix", "1999"},
		{"movie one (2021) [WEB-DL].mp4", "Movie One", "2021"},
		{"Breaking_Bad_S01E02_720p", "Breaking Bad", ""},
		{"Dune Part Two", "Dune Part Two", ""},
		{"2012.2009.720p.mkv", "2012", "2009"},
		{"[Group] Spirited Away", "Spirited Away", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := p.Normalize(context.Background(), tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.title, got.Title)
			assert.Equal(t, tt.year, got.Year)
		})
	}
}

func TestParseNormalizer_Unrecognized(t *testing.T) {
	p := NewParseNormalizer()
	for _, raw := range []string{"", "   ", "1080p.x264.mkv", "[only a group]"} {
		_, err := p.Normalize(context.Background(), raw)
		assert.ErrorIs(t, err, ErrUnrecognized, raw)
	}
}

func TestParseNormalizer_Display(t *testing.T) {
	p := NewParseNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{"episode.10.mkv", "episode 10"},
		{"Breaking.Bad.S01E10.720p.mkv", "Breaking Bad S01E10"},
		{"S01E02", "S01E02"},
		{"Show_S02E01_[GROUP].mp4", "Show S02E01"},
		{"Film (2019) 1080p WEB-DL", "Film 2019"},
		{"1080p", "1080p"},
		{"  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Display(tt.raw), tt.raw)
	}
}

type fakeSearcher struct {
	resp  *tmdb.Response
	err   error
	calls int
}

func (f *fakeSearcher) SearchMulti(_ context.Context, _ string) (*tmdb.Response, error) {
	f.calls++
	return f.resp, f.err
}

func TestTMDBNormalizer(t *testing.T) {
	searcher := &fakeSearcher{resp: &tmdb.Response{Results: []tmdb.Result{
		{Name: "Breaking Bad", FirstAirDate: "2008-01-20", MediaType: "tv"},
	}}}
	n := NewTMDBNormalizer(searcher)

	got, err := n.Normalize(context.Background(), "breaking.bad.s01.1080p")
	require.NoError(t, err)
	assert.Equal(t, Normalized{Title: "Breaking Bad", Year: "2008"}, got)

	searcher.resp = &tmdb.Response{}
	_, err = n.Normalize(context.Background(), "nothing here")
	assert.ErrorIs(t, err, ErrUnrecognized)

	searcher.err = errors.New("down")
	_, err = n.Normalize(context.Background(), "anything")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnrecognized)
}
