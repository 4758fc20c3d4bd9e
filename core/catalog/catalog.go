package catalog

import (
	"path"
	"strings"

	"catalog-sync/core/enrich"
)

// Kind distinguishes leaf items from containers.
type Kind string

const (
	// Movie is a leaf item with a single embeddable resource.
	Movie Kind = "movie"
	// Series is a container whose children are listed on its page.
	Series Kind = "series"
)

// Label returns the human readable kind name.
func (k Kind) Label() string {
	switch k {
	case Movie:
		return "Movie"
	case Series:
		return "Series"
	default:
		return string(k)
	}
}

// KindOf maps the remote container flag to a kind.
func KindOf(isContainer bool) Kind {
	if isContainer {
		return Series
	}
	return Movie
}

// Entry is one line of the master index.
type Entry struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Year         string        `json:"year,omitempty"`
	ArtifactPath string        `json:"path"`
	Kind         Kind          `json:"kind"`
	PosterRef    string        `json:"poster,omitempty"`
	BackdropRef  string        `json:"backdrop,omitempty"`
	Rating       enrich.Rating `json:"rating"`
}

// Layout resolves artifact paths for a Config.
type Layout struct {
	cfg Config
}

// NewLayout returns a layout, filling empty fields with defaults.
func NewLayout(cfg Config) Layout {
	if cfg.MovieDir == "" {
		cfg.MovieDir = "watch"
	}
	if cfg.SeriesDir == "" {
		cfg.SeriesDir = "series"
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = "index.html"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = "meta_cache.json"
	}
	cfg.MovieDir = strings.Trim(cfg.MovieDir, "/")
	cfg.SeriesDir = strings.Trim(cfg.SeriesDir, "/")
	return Layout{cfg: cfg}
}

// Dir returns the directory holding artifacts of kind.
func (l Layout) Dir(kind Kind) string {
	if kind == Series {
		return l.cfg.SeriesDir
	}
	return l.cfg.MovieDir
}

// ValidID reports whether id can name an artifact. Identifiers are opaque,
// but one holding a path separator or a ".." segment would resolve outside
// its kind directory.
func ValidID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || id == "." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

// ArtifactPath returns <dir(kind)>/<id>.html. Callers drop ids rejected by
// ValidID before asking for a path.
func (l Layout) ArtifactPath(kind Kind, id string) string {
	return path.Join(l.Dir(kind), id+".html")
}

// IndexPath returns the master index path.
func (l Layout) IndexPath() string {
	return l.cfg.IndexPath
}

// CachePath returns the enrichment cache record path.
func (l Layout) CachePath() string {
	return l.cfg.CachePath
}
