package pipeline

import (
	"time"

	"catalog-sync/core/ledger"
	"catalog-sync/core/reconcile"
)

// IndexResult is the outcome of the index write.
type IndexResult struct {
	Path     string            `json:"path"`
	Entries  int               `json:"entries"`
	Outcome  reconcile.Outcome `json:"outcome"`
	Revision string            `json:"revision,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// CacheResult is the outcome of the enrichment cache persist.
type CacheResult struct {
	Entries   int    `json:"entries"`
	Persisted bool   `json:"persisted"`
	Error     string `json:"error,omitempty"`
}

// Report describes one run.
type Report struct {
	RunID      string                 `json:"run_id"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Target     string                 `json:"target"`
	DryRun     bool                   `json:"dry_run"`
	Status     string                 `json:"status"`
	Error      string                 `json:"error,omitempty"`
	Summary    reconcile.PlanSummary  `json:"summary"`
	Items      []reconcile.ItemResult `json:"items"`
	Index      IndexResult            `json:"index"`
	Cache      CacheResult            `json:"cache"`
}

// Count returns the number of items with outcome.
func (r *Report) Count(outcome reconcile.Outcome) int {
	n := 0
	for _, item := range r.Items {
		if item.Outcome == outcome {
			n++
		}
	}
	return n
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// LedgerRun converts the report to its ledger row.
func (r *Report) LedgerRun() *ledger.Run {
	run := &ledger.Run{
		ID:           r.RunID,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		Target:       r.Target,
		DryRun:       r.DryRun,
		Status:       r.Status,
		Error:        r.Error,
		Items:        len(r.Items),
		Published:    r.Count(reconcile.OutcomePublished),
		Skipped:      r.Count(reconcile.OutcomeSkipped),
		Failed:       r.Count(reconcile.OutcomeFailed),
		Abandoned:    r.Count(reconcile.OutcomeAbandoned),
		IndexOutcome: string(r.Index.Outcome),
		Entries:      make([]ledger.RunItem, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		run.Entries = append(run.Entries, ledger.RunItem{
			RunID:   r.RunID,
			ItemID:  item.ID,
			Kind:    string(item.Kind),
			Path:    item.Path,
			Action:  string(item.Action),
			Outcome: string(item.Outcome),
			Reason:  item.Reason,
			Error:   item.Error,
		})
	}
	return run
}
