package reconcile

import (
	"context"
	"errors"
	"fmt"

	"catalog-sync/core/metrics"
	"catalog-sync/core/publish"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Applier executes publish operations against a target.
type Applier struct {
	target  publish.Target
	limiter *rate.Limiter
	dryRun  bool
	log     *zap.Logger
}

// NewApplier creates an applier. Writes are paced by opts.WritesPerSecond.
func NewApplier(target publish.Target, opts Options, log *zap.Logger) *Applier {
	limit := rate.Inf
	if opts.WritesPerSecond > 0 {
		limit = rate.Limit(opts.WritesPerSecond)
	}
	return &Applier{
		target:  target,
		limiter: rate.NewLimiter(limit, 1),
		dryRun:  opts.DryRun,
		log:     log,
	}
}

// WriteResult is the outcome of one operation.
type WriteResult struct {
	Outcome  Outcome
	Revision string
	Err      error
}

// Apply writes op. On a revision conflict the current revision is read and
// the write retried once; a second conflict abandons the path.
func (a *Applier) Apply(ctx context.Context, op publish.Operation) WriteResult {
	if a.dryRun {
		return WriteResult{Outcome: OutcomePlanned}
	}

	revision, err := a.write(ctx, op.Path, op.Content, op.ExpectedRevision)
	if err == nil {
		return a.done(WriteResult{Outcome: OutcomePublished, Revision: revision})
	}
	if !errors.Is(err, publish.ErrConflict) {
		return a.done(WriteResult{Outcome: OutcomeFailed, Err: err})
	}

	metrics.RecordConflict()
	a.log.Warn("Revision conflict, retrying with current revision",
		zap.String("path", op.Path),
		zap.String("expected", op.ExpectedRevision))

	current := ""
	artifact, readErr := a.target.Read(ctx, op.Path)
	switch {
	case readErr == nil:
		current = artifact.Revision
	case !errors.Is(readErr, publish.ErrNotFound):
		return a.done(WriteResult{Outcome: OutcomeFailed, Err: fmt.Errorf("re-read after conflict: %w", readErr)})
	}

	revision, err = a.write(ctx, op.Path, op.Content, current)
	switch {
	case err == nil:
		return a.done(WriteResult{Outcome: OutcomePublished, Revision: revision})
	case errors.Is(err, publish.ErrConflict):
		metrics.RecordConflict()
		return a.done(WriteResult{Outcome: OutcomeAbandoned, Err: err})
	default:
		return a.done(WriteResult{Outcome: OutcomeFailed, Err: err})
	}
}

func (a *Applier) write(ctx context.Context, path string, content []byte, expected string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for write slot: %w", err)
	}
	return a.target.Write(ctx, path, content, expected)
}

func (a *Applier) done(res WriteResult) WriteResult {
	metrics.RecordWrite(string(res.Outcome))
	return res
}

// ApplyPlan executes the plan's operations in decision order and returns one
// result per decision. Failures are reported per item and never stop the run.
func (a *Applier) ApplyPlan(ctx context.Context, plan *Plan) []ItemResult {
	results := make([]ItemResult, 0, len(plan.Decisions))
	for _, d := range plan.Decisions {
		res := ItemResult{
			ID:     d.Entry.ID,
			Kind:   d.Entry.Kind,
			Path:   d.Entry.ArtifactPath,
			Action: d.Action,
			Reason: d.Reason,
		}
		if d.Operation == nil {
			res.Outcome = OutcomeSkipped
			results = append(results, res)
			continue
		}

		wr := a.Apply(ctx, *d.Operation)
		res.Outcome = wr.Outcome
		res.Revision = wr.Revision
		if wr.Err != nil {
			res.Error = wr.Err.Error()
			a.log.Warn("Publish failed",
				zap.String("path", res.Path),
				zap.String("outcome", string(wr.Outcome)),
				zap.Error(wr.Err))
		} else if wr.Outcome == OutcomePublished {
			a.log.Info("Published", zap.String("path", res.Path), zap.String("action", string(d.Action)))
		}
		results = append(results, res)
	}
	return results
}

// ApplyPlan is a convenience wrapper around NewApplier and Applier.ApplyPlan.
func ApplyPlan(ctx context.Context, target publish.Target, plan *Plan, opts Options, log *zap.Logger) []ItemResult {
	return NewApplier(target, opts, log).ApplyPlan(ctx, plan)
}
