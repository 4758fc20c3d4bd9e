package enrich

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"

	"catalog-sync/core/enrich/tmdb"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnrecognized indicates that a raw name could not be normalised to a title.
var ErrUnrecognized = errors.New("unrecognized name")

// Normalized is a canonical title with an optional four-digit year.
type Normalized struct {
	Title string
	Year  string
}

// Normalizer maps a raw remote name to a canonical title.
type Normalizer interface {
	Normalize(ctx context.Context, rawName string) (Normalized, error)
}

var mediaExtensions = map[string]struct{}{
	".mkv": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".m4v": {},
	".webm": {}, ".wmv": {}, ".ts": {}, ".flv": {}, ".mpg": {},
}

// Release tags that end the title part of a release name.
var releaseTags = map[string]struct{}{
	"480p": {}, "576p": {}, "720p": {}, "1080p": {}, "1080i": {}, "2160p": {}, "4k": {},
	"bluray": {}, "bdrip": {}, "brrip": {}, "dvdrip": {}, "webrip": {}, "webdl": {},
	"web": {}, "hdtv": {}, "hdrip": {}, "remux": {}, "x264": {}, "x265": {},
	"h264": {}, "h265": {}, "hevc": {}, "xvid": {}, "aac": {}, "dts": {},
	"hdr": {}, "proper": {}, "repack": {}, "extended": {}, "unrated": {},
	"multi": {}, "vostfr": {}, "truefrench": {}, "french": {},
}

// ParseNormalizer derives titles from release-style names locally.
type ParseNormalizer struct {
	caser cases.Caser
}

var _ Normalizer = (*ParseNormalizer)(nil)

// NewParseNormalizer creates a local release-name parser.
func NewParseNormalizer() *ParseNormalizer {
	return &ParseNormalizer{caser: cases.Title(language.Und)}
}

// Normalize strips the extension, separators, bracketed groups and release
// tags, and extracts a year. It fails with ErrUnrecognized when no title
// words remain.
func (p *ParseNormalizer) Normalize(_ context.Context, rawName string) (Normalized, error) {
	words, year := parseRelease(rawName)
	if len(words) == 0 {
		return Normalized{}, fmt.Errorf("%w: %q", ErrUnrecognized, rawName)
	}
	return Normalized{Title: p.caser.String(strings.Join(words, " ")), Year: year}, nil
}

// Display cleans a child name for a container listing. The extension,
// bracketed groups and everything from the first release tag on are removed;
// episode markers and years stay, and tokens keep their case. rawName itself
// is returned when nothing remains.
func (p *ParseNormalizer) Display(rawName string) string {
	name := stripBrackets(stripExtension(strings.TrimSpace(rawName)))

	var words []string
	for _, token := range strings.FieldsFunc(name, isSeparator) {
		if isReleaseTag(token) && len(words) > 0 {
			break
		}
		words = append(words, token)
	}
	if len(words) == 0 {
		return strings.TrimSpace(rawName)
	}
	return strings.Join(words, " ")
}

func parseRelease(rawName string) ([]string, string) {
	name := stripBrackets(stripExtension(strings.TrimSpace(rawName)))

	var words []string
	year := ""
	for _, token := range strings.FieldsFunc(name, isSeparator) {
		lower := strings.ToLower(token)
		if isYear(lower) && len(words) > 0 {
			year = lower
			break
		}
		if isReleaseTag(lower) {
			break
		}
		if isEpisodeTag(lower) {
			break
		}
		words = append(words, token)
	}
	return words, year
}

func stripExtension(name string) string {
	ext := path.Ext(name)
	if _, ok := mediaExtensions[strings.ToLower(ext)]; ok {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

func isReleaseTag(token string) bool {
	_, ok := releaseTags[strings.ReplaceAll(strings.ToLower(token), "-", "")]
	return ok
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '.' || r == '_'
}

// stripBrackets removes [group] and (tag) segments, keeping a bare year.
func stripBrackets(name string) string {
	var out strings.Builder
	depth := 0
	var inner strings.Builder
	for _, r := range name {
		switch {
		case r == '[' || r == '(' || r == '{':
			depth++
			if depth == 1 {
				inner.Reset()
			}
		case (r == ']' || r == ')' || r == '}') && depth > 0:
			depth--
			if depth == 0 {
				if text := strings.TrimSpace(inner.String()); isYear(text) {
					out.WriteString(" " + text + " ")
				} else {
					out.WriteRune(' ')
				}
			}
		case depth > 0:
			inner.WriteRune(r)
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

func isYear(token string) bool {
	if len(token) != 4 {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return strings.HasPrefix(token, "19") || strings.HasPrefix(token, "20")
}

// isEpisodeTag matches s01, s01e02 and e02 style tokens.
func isEpisodeTag(token string) bool {
	if len(token) < 2 || (token[0] != 's' && token[0] != 'e') {
		return false
	}
	digits := 0
	for _, r := range token[1:] {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == 'e' && digits > 0:
		default:
			return false
		}
	}
	return digits > 0
}

// TMDBNormalizer resolves titles through TMDB multi-search, using the local
// parser to build the query.
type TMDBNormalizer struct {
	searcher tmdb.Searcher
	parser   *ParseNormalizer
}

var _ Normalizer = (*TMDBNormalizer)(nil)

// NewTMDBNormalizer creates a TMDB-backed normaliser.
func NewTMDBNormalizer(searcher tmdb.Searcher) *TMDBNormalizer {
	return &TMDBNormalizer{searcher: searcher, parser: NewParseNormalizer()}
}

// Normalize returns the canonical TMDB title of the best match.
func (n *TMDBNormalizer) Normalize(ctx context.Context, rawName string) (Normalized, error) {
	query, err := n.parser.Normalize(ctx, rawName)
	if err != nil {
		return Normalized{}, err
	}
	resp, err := n.searcher.SearchMulti(ctx, query.Title)
	if err != nil {
		return Normalized{}, fmt.Errorf("search %q: %w", query.Title, err)
	}
	match, ok := tmdb.BestMatch(resp, query.Year)
	if !ok {
		return Normalized{}, fmt.Errorf("%w: no tmdb match for %q", ErrUnrecognized, query.Title)
	}
	year := match.Year()
	if year == "" {
		year = query.Year
	}
	return Normalized{Title: match.DisplayTitle(), Year: year}, nil
}
