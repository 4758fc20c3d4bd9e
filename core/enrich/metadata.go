package enrich

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Metadata is the enriched description of one raw name.
type Metadata struct {
	Title       string `json:"title"`
	Year        string `json:"year,omitempty"`
	PosterRef   string `json:"poster,omitempty"`
	BackdropRef string `json:"backdrop,omitempty"`
	Rating      Rating `json:"rating"`
}

// Rating is either a known score or unknown.
type Rating struct {
	Score float64
	Known bool
}

// UnknownRating is the sentinel for a missing rating.
var UnknownRating = Rating{}

const unknownRatingText = "unknown"

// KnownRating returns a rating with the given score.
func KnownRating(score float64) Rating {
	return Rating{Score: score, Known: true}
}

// String formats the score with one decimal, or "unknown".
func (r Rating) String() string {
	if !r.Known {
		return unknownRatingText
	}
	return strconv.FormatFloat(r.Score, 'f', 1, 64)
}

// MarshalJSON encodes a known rating as a number and unknown as "unknown".
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Known {
		return []byte(strconv.Quote(unknownRatingText)), nil
	}
	return []byte(strconv.FormatFloat(r.Score, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a number, "unknown" or null.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" || string(data) == strconv.Quote(unknownRatingText) {
		*r = UnknownRating
		return nil
	}
	score, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid rating %s: %w", data, err)
	}
	*r = KnownRating(score)
	return nil
}

// Placeholder returns the deterministic fallback poster for title.
func Placeholder(base, title string) string {
	return base + url.QueryEscape(strings.TrimSpace(title))
}
