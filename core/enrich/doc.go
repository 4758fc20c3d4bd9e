// Package enrich turns raw remote item names into display metadata.
//
// Enrichment runs two collaborators in sequence: a Normalizer that maps a raw
// name to a title and optional year, and a Lookup that maps the title to
// poster, backdrop and rating. Enrichment never fails. Every collaborator
// error is absorbed into fallbacks:
//
//   - normalisation failed: title is the raw name, poster is a placeholder
//     keyed by the title, rating is unknown; the result is not cached so a
//     later run retries.
//   - only the lookup failed: the normalised title is kept, poster and rating
//     fall back; the result is cached.
//
// The Cache is advisory and persisted through the publish target as a single
// JSON record. A missing or corrupt record is an empty cache.
//
// # Concurrency
//
// Enricher is safe for concurrent use. Each distinct raw name is resolved at
// most once per run: concurrent misses for the same name share one
// resolution, and Prefetch fans distinct names out over a bounded worker pool.
package enrich
