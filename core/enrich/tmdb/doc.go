// Package tmdb wraps the TMDB multi-search endpoint used to normalise titles
// and to look up posters, backdrops and ratings.
package tmdb
