package enrich

import (
	"context"
	"errors"
	"sync"
	"time"

	"catalog-sync/core/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Enricher resolves metadata cache-first and memoises every result for the
// lifetime of the value, which is one run.
type Enricher struct {
	normalizer  Normalizer
	lookup      Lookup
	cache       *Cache
	display     *ParseNormalizer
	placeholder string
	timeout     time.Duration
	workers     int
	log         *zap.Logger

	mu    sync.RWMutex
	memo  map[string]Metadata
	group singleflight.Group
}

// NewEnricher creates an enricher. lookup may be nil, in which case every
// normalised title gets placeholder artwork and an unknown rating.
func NewEnricher(cfg Config, normalizer Normalizer, lookup Lookup, cache *Cache, log *zap.Logger) *Enricher {
	if cache == nil {
		cache = NewCache("")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Enricher{
		normalizer:  normalizer,
		lookup:      lookup,
		cache:       cache,
		display:     NewParseNormalizer(),
		placeholder: cfg.PlaceholderBaseURL,
		timeout:     timeout,
		workers:     cfg.Workers,
		log:         log,
		memo:        make(map[string]Metadata),
	}
}

// Cache returns the cache backing the enricher.
func (e *Enricher) Cache() *Cache {
	return e.cache
}

// Enrich returns metadata for rawName. It never fails; collaborator errors
// produce fallback values.
func (e *Enricher) Enrich(ctx context.Context, rawName string) Metadata {
	if md, ok := e.memoized(rawName); ok {
		return md
	}
	v, _, _ := e.group.Do(rawName, func() (interface{}, error) {
		if md, ok := e.memoized(rawName); ok {
			return md, nil
		}
		md := e.resolve(ctx, rawName)
		e.mu.Lock()
		e.memo[rawName] = md
		e.mu.Unlock()
		return md, nil
	})
	return v.(Metadata)
}

// DisplayName cleans rawName with the local parser only. It neither consults
// nor fills the cache.
func (e *Enricher) DisplayName(rawName string) string {
	return e.display.Display(rawName)
}

// Prefetch enriches distinct names concurrently with at most Workers lookups
// in flight. It is a no-op unless Workers is greater than one.
func (e *Enricher) Prefetch(ctx context.Context, rawNames []string) {
	if e.workers <= 1 || len(rawNames) == 0 {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	seen := make(map[string]struct{}, len(rawNames))
	for _, name := range rawNames {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		name := name
		g.Go(func() error {
			e.Enrich(gctx, name)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Enricher) memoized(rawName string) (Metadata, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	md, ok := e.memo[rawName]
	return md, ok
}

func (e *Enricher) resolve(ctx context.Context, rawName string) Metadata {
	if md, ok := e.cache.Get(rawName); ok {
		metrics.RecordEnrichment(metrics.EnrichmentCacheHit)
		return md
	}

	normCtx, cancel := context.WithTimeout(ctx, e.timeout)
	norm, err := e.normalizer.Normalize(normCtx, rawName)
	cancel()
	if err != nil {
		e.log.Warn("Title normalisation failed, using raw name",
			zap.String("name", rawName), zap.Error(err))
		metrics.RecordEnrichment(metrics.EnrichmentDegraded)
		return e.fallback(rawName, "")
	}

	md := e.fallback(norm.Title, norm.Year)
	outcome := metrics.EnrichmentPartial
	if e.lookup != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, e.timeout)
		art, err := e.lookup.Lookup(lookupCtx, norm.Title, norm.Year)
		cancel()
		switch {
		case err == nil:
			outcome = metrics.EnrichmentFull
			if art.PosterRef != "" {
				md.PosterRef = art.PosterRef
			}
			md.BackdropRef = art.BackdropRef
			md.Rating = art.Rating
		case errors.Is(err, ErrNoMatch):
			e.log.Debug("No artwork match", zap.String("title", norm.Title))
		default:
			e.log.Warn("Artwork lookup failed, using placeholder",
				zap.String("title", norm.Title), zap.Error(err))
		}
	}
	metrics.RecordEnrichment(outcome)
	e.cache.Put(rawName, md)
	return md
}

func (e *Enricher) fallback(title, year string) Metadata {
	return Metadata{
		Title:     title,
		Year:      year,
		PosterRef: Placeholder(e.placeholder, title),
		Rating:    UnknownRating,
	}
}
