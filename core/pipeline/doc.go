// Package pipeline runs one synchronisation of the remote catalog with the
// publish target.
//
// A run lists the remote root once, snapshots what is already published,
// loads the enrichment cache, plans every item with the reconciliation
// engine, applies the plan, then writes the master index and persists the
// cache. Failing to list the remote catalog or the published state aborts the
// run before any write. Every other failure is local to one item, the index
// or the cache, and is reported rather than returned.
//
// # Usage
//
//	p := pipeline.New(settings, pipeline.Deps{Lister: lister, Target: target, Normalizer: norm}, logger)
//	report, err := p.Run(ctx)
package pipeline
