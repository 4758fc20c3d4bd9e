package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"catalog-sync/core/publish"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const cacheRecordVersion = 1

type cacheRecord struct {
	Version int                 `json:"version"`
	Entries map[string]Metadata `json:"entries"`
}

// Cache maps raw names to enrichment results and is persisted as a single
// JSON record on the publish target.
type Cache struct {
	mu       sync.RWMutex
	path     string
	revision string
	entries  map[string]Metadata
	dirty    map[string]struct{}
}

// NewCache returns an empty cache bound to path.
func NewCache(path string) *Cache {
	return &Cache{
		path:    path,
		entries: make(map[string]Metadata),
		dirty:   make(map[string]struct{}),
	}
}

// LoadCache reads the cache record from target. A missing, unreadable or
// corrupt record yields an empty cache; the run continues without it.
func LoadCache(ctx context.Context, target publish.Target, path string, log *zap.Logger) *Cache {
	cache := NewCache(path)
	artifact, err := target.Read(ctx, path)
	if err != nil {
		if !errors.Is(err, publish.ErrNotFound) {
			log.Warn("Enrichment cache unreadable, starting empty", zap.String("path", path), zap.Error(err))
		}
		return cache
	}
	cache.revision = artifact.Revision
	entries, err := decodeCacheRecord(artifact.Content)
	if err != nil {
		log.Warn("Enrichment cache corrupt, starting empty", zap.String("path", path), zap.Error(err))
		return cache
	}
	cache.entries = entries
	log.Debug("Enrichment cache loaded", zap.String("path", path), zap.Int("entries", len(entries)))
	return cache
}

func decodeCacheRecord(data []byte) (map[string]Metadata, error) {
	var record cacheRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode cache record: %w", err)
	}
	if record.Entries == nil {
		record.Entries = make(map[string]Metadata)
	}
	return record.Entries, nil
}

// Get returns the cached metadata for rawName.
func (c *Cache) Get(rawName string) (Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	md, ok := c.entries[rawName]
	return md, ok
}

// Put stores metadata for rawName and marks the cache modified.
func (c *Cache) Put(rawName string, md Metadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[rawName] = md
	c.dirty[rawName] = struct{}{}
}

// Modified reports whether entries were added since load or last persist.
func (c *Cache) Modified() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.dirty) > 0
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Path returns the artifact path of the record.
func (c *Cache) Path() string {
	return c.path
}

// Persist writes the record when modified. On a revision conflict the current
// record is re-read, this run's entries are merged over it and the write is
// retried once.
func (c *Cache) Persist(ctx context.Context, target publish.Target) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.dirty) == 0 {
		return nil
	}

	revision, err := c.write(ctx, target, c.revision)
	if errors.Is(err, publish.ErrConflict) {
		current, readErr := target.Read(ctx, c.path)
		expected := ""
		switch {
		case readErr == nil:
			expected = current.Revision
			if remote, decodeErr := decodeCacheRecord(current.Content); decodeErr == nil {
				c.merge(remote)
			}
		case !errors.Is(readErr, publish.ErrNotFound):
			return fmt.Errorf("re-read cache after conflict: %w", readErr)
		}
		revision, err = c.write(ctx, target, expected)
	}
	if err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.revision = revision
	c.dirty = make(map[string]struct{})
	return nil
}

// merge adopts remote entries for every key this run did not write.
func (c *Cache) merge(remote map[string]Metadata) {
	for key, md := range remote {
		if _, ours := c.dirty[key]; ours {
			continue
		}
		c.entries[key] = md
	}
}

func (c *Cache) write(ctx context.Context, target publish.Target, expected string) (string, error) {
	data, err := json.MarshalIndent(cacheRecord{Version: cacheRecordVersion, Entries: c.entries}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode cache record: %w", err)
	}
	return target.Write(ctx, c.path, data, expected)
}
