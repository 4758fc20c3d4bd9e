// Package index builds the master index artifact of the catalog.
package index

import (
	"fmt"

	"catalog-sync/core/catalog"
	"catalog-sync/core/publish"
)

// Renderer renders the index page.
type Renderer interface {
	Index(entries []catalog.Entry) ([]byte, error)
}

// Builder builds the index write for a run.
type Builder struct {
	renderer Renderer
	path     string
}

// NewBuilder creates a builder writing to path.
func NewBuilder(renderer Renderer, path string) *Builder {
	return &Builder{renderer: renderer, path: path}
}

// Path returns the index artifact path.
func (b *Builder) Path() string {
	return b.path
}

// Build renders entries in the given order. The returned operation carries no
// expected revision; the caller resolves it against the target right before
// writing, since the index is rewritten on every run.
func (b *Builder) Build(entries []catalog.Entry) (publish.Operation, error) {
	content, err := b.renderer.Index(entries)
	if err != nil {
		return publish.Operation{}, fmt.Errorf("build index: %w", err)
	}
	return publish.Operation{Path: b.path, Content: content, Reason: fmt.Sprintf("index of %d entries", len(entries))}, nil
}
