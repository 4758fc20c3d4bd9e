package reconcile

import (
	"context"

	"catalog-sync/core/catalog"
	"catalog-sync/core/enrich"
	"catalog-sync/core/ordering"
)

// Enricher provides display metadata for raw remote names.
type Enricher interface {
	// Enrich never fails; collaborator errors yield fallback metadata.
	Enrich(ctx context.Context, rawName string) enrich.Metadata

	// DisplayName cleans a child name without remote lookups.
	DisplayName(rawName string) string

	// Prefetch warms enrichment for many names ahead of the sequential walk.
	Prefetch(ctx context.Context, rawNames []string)
}

// Renderer produces page content for entries.
type Renderer interface {
	Leaf(entry catalog.Entry) ([]byte, error)
	Container(entry catalog.Entry, children []ordering.Child) ([]byte, error)
}

var _ Enricher = (*enrich.Enricher)(nil)
