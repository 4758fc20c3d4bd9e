package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-sync/core/catalog"
	"catalog-sync/core/enrich"
	"catalog-sync/core/index"
	"catalog-sync/core/ledger"
	"catalog-sync/core/listing"
	"catalog-sync/core/metrics"
	"catalog-sync/core/publish"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/render"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrListingFailed indicates that the remote catalog could not be listed.
	ErrListingFailed = errors.New("remote listing failed")

	// ErrPublishedStateUnavailable indicates that the published keys could
	// not be listed, so new items cannot be told apart from published ones.
	ErrPublishedStateUnavailable = errors.New("published state unavailable")
)

// Run statuses.
const (
	StatusCompleted = ledger.StatusCompleted
	StatusAborted   = ledger.StatusAborted
)

// Recorder stores run reports.
type Recorder interface {
	Record(ctx context.Context, run *ledger.Run) error
}

// Deps are the collaborators of a pipeline. Lookup and Recorder are optional.
type Deps struct {
	Lister     listing.Lister
	Target     publish.Target
	Normalizer enrich.Normalizer
	Lookup     enrich.Lookup
	Recorder   Recorder
}

// Settings are the run parameters.
type Settings struct {
	Layout    catalog.Layout
	Policy    reconcile.ContainerPolicy
	Apply     reconcile.Options
	Enrich    enrich.Config
	EmbedBase string
}

// Pipeline runs synchronisations.
type Pipeline struct {
	deps     Deps
	settings Settings
	renderer *render.Renderer
	index    *index.Builder
	log      *zap.Logger
	now      func() time.Time
}

// New creates a pipeline.
func New(settings Settings, deps Deps, log *zap.Logger) *Pipeline {
	renderer := render.New(settings.EmbedBase)
	return &Pipeline{
		deps:     deps,
		settings: settings,
		renderer: renderer,
		index:    index.NewBuilder(renderer, settings.Layout.IndexPath()),
		log:      log,
		now:      time.Now,
	}
}

// Run performs one synchronisation. The returned error is non-nil only when
// the run was aborted; the report is returned in every case.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: p.now(),
		Target:    p.deps.Target.Name(),
		DryRun:    p.settings.Apply.DryRun,
	}
	log := p.log.With(zap.String("run_id", report.RunID))
	log.Info("Synchronisation started", zap.String("target", report.Target), zap.Bool("dry_run", report.DryRun))

	items, err := p.deps.Lister.List(ctx, "")
	if err != nil {
		return p.abort(ctx, log, report, fmt.Errorf("%w: %w", ErrListingFailed, err))
	}
	log.Info("Remote catalog listed", zap.Int("items", len(items)))

	snap, err := reconcile.BuildSnapshot(ctx, p.deps.Target, p.settings.Layout, log)
	if err != nil {
		return p.abort(ctx, log, report, fmt.Errorf("%w: %w", ErrPublishedStateUnavailable, err))
	}

	cache := enrich.LoadCache(ctx, p.deps.Target, p.settings.Layout.CachePath(), log)
	enricher := enrich.NewEnricher(p.settings.Enrich, p.deps.Normalizer, p.deps.Lookup, cache, log)
	engine := reconcile.NewEngine(enricher, p.deps.Lister, p.renderer, p.settings.Layout, p.settings.Policy, log)

	plan, err := engine.Synchronize(ctx, items, snap)
	if err != nil {
		return p.abort(ctx, log, report, err)
	}
	report.Summary = plan.Summary

	applier := reconcile.NewApplier(p.deps.Target, p.settings.Apply, log)
	report.Items = applier.ApplyPlan(ctx, plan)

	// The index is written only after every item write completed or was abandoned.
	report.Index = p.writeIndex(ctx, log, applier, plan.Entries)

	report.Cache = CacheResult{Entries: cache.Len()}
	if !p.settings.Apply.DryRun && cache.Modified() {
		if err := cache.Persist(ctx, p.deps.Target); err != nil {
			log.Warn("Enrichment cache not persisted", zap.Error(err))
			report.Cache.Error = err.Error()
		} else {
			report.Cache.Persisted = true
		}
	}

	report.Status = StatusCompleted
	report.FinishedAt = p.now()
	metrics.RecordRun(StatusCompleted, report.Duration())
	p.record(ctx, log, report)

	log.Info("Synchronisation finished",
		zap.Int("published", report.Count(reconcile.OutcomePublished)),
		zap.Int("skipped", report.Count(reconcile.OutcomeSkipped)),
		zap.Int("failed", report.Count(reconcile.OutcomeFailed)),
		zap.Int("abandoned", report.Count(reconcile.OutcomeAbandoned)),
		zap.String("index", string(report.Index.Outcome)),
		zap.Duration("duration", report.Duration()))
	return report, nil
}

func (p *Pipeline) writeIndex(ctx context.Context, log *zap.Logger, applier *reconcile.Applier, entries []catalog.Entry) IndexResult {
	result := IndexResult{Path: p.index.Path(), Entries: len(entries)}

	op, err := p.index.Build(entries)
	if err != nil {
		result.Outcome = reconcile.OutcomeFailed
		result.Error = err.Error()
		log.Error("Index not built", zap.Error(err))
		return result
	}

	current, err := p.deps.Target.Read(ctx, op.Path)
	switch {
	case err == nil:
		op.ExpectedRevision = current.Revision
	case !errors.Is(err, publish.ErrNotFound):
		// Attempt a create; a conflict re-reads the revision and retries.
		log.Warn("Index revision unknown", zap.Error(err))
	}

	wr := applier.Apply(ctx, op)
	result.Outcome = wr.Outcome
	result.Revision = wr.Revision
	if wr.Err != nil {
		result.Error = wr.Err.Error()
		log.Error("Index not written", zap.String("outcome", string(wr.Outcome)), zap.Error(wr.Err))
	}
	return result
}

func (p *Pipeline) abort(ctx context.Context, log *zap.Logger, report *Report, err error) (*Report, error) {
	report.Status = StatusAborted
	report.Error = err.Error()
	report.FinishedAt = p.now()
	metrics.RecordRun(StatusAborted, report.Duration())
	log.Error("Synchronisation aborted", zap.Error(err))
	p.record(ctx, log, report)
	return report, err
}

func (p *Pipeline) record(ctx context.Context, log *zap.Logger, report *Report) {
	if p.deps.Recorder == nil || report.DryRun {
		return
	}
	// Cancelled runs are recorded too.
	if err := p.deps.Recorder.Record(context.WithoutCancel(ctx), report.LedgerRun()); err != nil {
		log.Warn("Run not recorded in ledger", zap.Error(err))
	}
}
