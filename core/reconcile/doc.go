// Package reconcile decides, for every remote catalog item, whether a page
// must be published, and applies those decisions to a publish target.
//
// # Architecture
//
// Reconciliation is split in three steps:
//
// 1. Snapshot: BuildSnapshot lists the identifiers already published for each
// kind and reads the child lists recorded in published container pages.
//
// 2. Engine: Synchronize walks the remote listing in order, enriches every
// item, renders pages and emits a Plan. The engine never writes to the store;
// every write is an Operation in the plan.
//
// 3. Applier: ApplyPlan executes the plan's operations in order. A revision
// conflict is retried once against the freshly read revision; a second
// conflict abandons that path and the run continues.
//
// # Container policy
//
// Leaves are published once and never rewritten. Published containers follow
// the configured ContainerPolicy:
//
//   - detect: republish only when the freshly ordered child ids differ from
//     the ids recorded in the published page, or the page could not be read.
//   - always: republish on every run.
//
// A container whose child listing fails is published with an empty list when
// it is new, and left untouched when already published.
//
// # Usage Example
//
//	snap, err := reconcile.BuildSnapshot(ctx, target, layout, logger)
//	engine := reconcile.NewEngine(enricher, lister, renderer, layout, reconcile.PolicyDetect, logger)
//	plan, err := engine.Synchronize(ctx, items, snap)
//	results := reconcile.ApplyPlan(ctx, target, plan, reconcile.Options{}, logger)
package reconcile
