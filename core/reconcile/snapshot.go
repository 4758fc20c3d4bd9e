package reconcile

import (
	"context"
	"fmt"
	"sync"

	"catalog-sync/core/catalog"
	"catalog-sync/core/publish"
	"catalog-sync/core/render"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// snapshotReadLimit bounds concurrent container page reads.
const snapshotReadLimit = 8

// BuildSnapshot lists published keys for every kind concurrently, then reads
// the child lists recorded in published container pages. A listing failure
// is returned; an unreadable container page is recorded as unreadable.
func BuildSnapshot(ctx context.Context, target publish.Target, layout catalog.Layout, log *zap.Logger) (*Snapshot, error) {
	snap := NewSnapshot()

	var (
		movies map[string]struct{}
		series map[string]struct{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		keys, err := target.ListKeys(gctx, layout.Dir(catalog.Movie))
		if err != nil {
			return fmt.Errorf("list %s: %w", layout.Dir(catalog.Movie), err)
		}
		movies = keys
		return nil
	})
	g.Go(func() error {
		keys, err := target.ListKeys(gctx, layout.Dir(catalog.Series))
		if err != nil {
			return fmt.Errorf("list %s: %w", layout.Dir(catalog.Series), err)
		}
		series = keys
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.Published[catalog.Movie] = movies
	snap.Published[catalog.Series] = series

	var mu sync.Mutex
	rg, rctx := errgroup.WithContext(ctx)
	rg.SetLimit(snapshotReadLimit)
	for id := range series {
		id := id
		rg.Go(func() error {
			recorded := readRecorded(rctx, target, layout.ArtifactPath(catalog.Series, id), log)
			mu.Lock()
			snap.Recorded[id] = recorded
			mu.Unlock()
			return nil
		})
	}
	_ = rg.Wait()

	log.Debug("Published snapshot built",
		zap.Int("movies", len(movies)),
		zap.Int("series", len(series)))
	return snap, nil
}

func readRecorded(ctx context.Context, target publish.Target, path string, log *zap.Logger) RecordedContainer {
	artifact, err := target.Read(ctx, path)
	if err != nil {
		log.Warn("Published container unreadable", zap.String("path", path), zap.Error(err))
		return RecordedContainer{}
	}
	ids, err := render.ParseChildren(artifact.Content)
	if err != nil {
		log.Warn("Published container has no child list", zap.String("path", path), zap.Error(err))
		return RecordedContainer{Revision: artifact.Revision}
	}
	return RecordedContainer{Revision: artifact.Revision, ChildIDs: ids, Readable: true}
}
