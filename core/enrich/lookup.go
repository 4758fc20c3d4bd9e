package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-sync/core/enrich/tmdb"

	gobreaker "github.com/sony/gobreaker/v2"
)

// ErrNoMatch indicates that the lookup service knows nothing about a title.
var ErrNoMatch = errors.New("no artwork match")

// Artwork is what a lookup contributes to metadata.
type Artwork struct {
	PosterRef   string
	BackdropRef string
	Rating      Rating
}

// Lookup resolves artwork and rating for a normalised title.
type Lookup interface {
	Lookup(ctx context.Context, title, year string) (Artwork, error)
}

// TMDBLookup resolves artwork through TMDB multi-search.
type TMDBLookup struct {
	searcher  tmdb.Searcher
	imageBase string
}

var _ Lookup = (*TMDBLookup)(nil)

// NewTMDBLookup creates a lookup that builds image URLs under imageBase.
func NewTMDBLookup(searcher tmdb.Searcher, imageBase string) *TMDBLookup {
	return &TMDBLookup{searcher: searcher, imageBase: strings.TrimRight(imageBase, "/")}
}

// Lookup returns the best match's poster, backdrop and vote average.
func (l *TMDBLookup) Lookup(ctx context.Context, title, year string) (Artwork, error) {
	resp, err := l.searcher.SearchMulti(ctx, title)
	if err != nil {
		return Artwork{}, fmt.Errorf("search %q: %w", title, err)
	}
	match, ok := tmdb.BestMatch(resp, year)
	if !ok {
		return Artwork{}, fmt.Errorf("%w: %q", ErrNoMatch, title)
	}
	art := Artwork{Rating: UnknownRating}
	if match.PosterPath != "" {
		art.PosterRef = l.imageBase + "/w500" + match.PosterPath
	}
	if match.BackdropPath != "" {
		art.BackdropRef = l.imageBase + "/w1280" + match.BackdropPath
	}
	if match.VoteCount > 0 {
		art.Rating = KnownRating(match.VoteAverage)
	}
	return art, nil
}

// BreakerLookup stops calling a failing lookup service until it recovers.
type BreakerLookup struct {
	next    Lookup
	breaker *gobreaker.CircuitBreaker[Artwork]
}

var _ Lookup = (*BreakerLookup)(nil)

// NewBreakerLookup wraps next with a circuit breaker that opens after
// failures consecutive errors and stays open for openFor. ErrNoMatch does not
// count as a failure.
func NewBreakerLookup(next Lookup, failures uint32, openFor time.Duration) *BreakerLookup {
	if failures == 0 {
		failures = 5
	}
	settings := gobreaker.Settings{
		Name:        "artwork-lookup",
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoMatch) || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerLookup{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[Artwork](settings),
	}
}

// Lookup calls the wrapped lookup unless the circuit is open.
func (b *BreakerLookup) Lookup(ctx context.Context, title, year string) (Artwork, error) {
	art, err := b.breaker.Execute(func() (Artwork, error) {
		return b.next.Lookup(ctx, title, year)
	})
	if err != nil {
		return Artwork{}, fmt.Errorf("lookup %q: %w", title, err)
	}
	return art, nil
}

// State reports the breaker state for diagnostics.
func (b *BreakerLookup) State() gobreaker.State {
	return b.breaker.State()
}
