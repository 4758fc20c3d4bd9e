package reconcile

import (
	"fmt"
	"strings"

	"catalog-sync/core/catalog"
	"catalog-sync/core/publish"
)

// ContainerPolicy decides when an already-published container is republished.
type ContainerPolicy string

const (
	// PolicyDetect republishes a container when its child list changed.
	PolicyDetect ContainerPolicy = "detect"
	// PolicyAlways republishes every published container on every run.
	PolicyAlways ContainerPolicy = "always"
)

// ParsePolicy validates a policy name. An empty name selects PolicyDetect.
func ParsePolicy(name string) (ContainerPolicy, error) {
	switch ContainerPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyDetect:
		return PolicyDetect, nil
	case PolicyAlways:
		return PolicyAlways, nil
	default:
		return "", fmt.Errorf("unknown container policy %q (want detect or always)", name)
	}
}

// Action is the decision taken for one item.
type Action string

const (
	// ActionCreate publishes a page that does not exist yet.
	ActionCreate Action = "create"
	// ActionUpdate replaces an existing container page.
	ActionUpdate Action = "update"
	// ActionSkip leaves the published page untouched.
	ActionSkip Action = "skip"
)

// Outcome is the result of applying a decision.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
	OutcomeAbandoned Outcome = "abandoned"
	// OutcomePlanned marks a write that a dry run did not perform.
	OutcomePlanned Outcome = "planned"
)

// Decision pairs a catalog entry with what the engine decided for it.
type Decision struct {
	Entry  catalog.Entry `json:"entry"`
	Action Action        `json:"action"`
	Reason string        `json:"reason"`

	// Operation is set for create and update actions.
	Operation *publish.Operation `json:"operation,omitempty"`
}

// Plan is the engine output for one run.
type Plan struct {
	// Entries holds one entry per valid remote item, in listing order.
	Entries []catalog.Entry `json:"entries"`

	// Decisions holds one decision per entry, in the same order.
	Decisions []Decision `json:"decisions"`

	Summary PlanSummary `json:"summary"`
}

// Operations returns the planned writes in execution order.
func (p *Plan) Operations() []publish.Operation {
	ops := make([]publish.Operation, 0, len(p.Decisions))
	for _, d := range p.Decisions {
		if d.Operation != nil {
			ops = append(ops, *d.Operation)
		}
	}
	return ops
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	// TotalItems counts valid remote items.
	TotalItems int `json:"total_items"`

	// DroppedItems counts remote items without an identifier.
	DroppedItems int `json:"dropped_items"`

	Movies int `json:"movies"`
	Series int `json:"series"`

	Creates int `json:"creates"`
	Updates int `json:"updates"`
	Skips   int `json:"skips"`

	// ChildListingFailures counts containers whose children could not be listed.
	ChildListingFailures int `json:"child_listing_failures"`
}

// ItemResult is the applied outcome for one item.
type ItemResult struct {
	ID       string       `json:"id"`
	Kind     catalog.Kind `json:"kind"`
	Path     string       `json:"path"`
	Action   Action       `json:"action"`
	Outcome  Outcome      `json:"outcome"`
	Reason   string       `json:"reason,omitempty"`
	Revision string       `json:"revision,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// Options controls plan application.
type Options struct {
	// DryRun reports planned writes without performing them.
	DryRun bool

	// WritesPerSecond paces writes; zero or less disables pacing.
	WritesPerSecond float64
}

// RecordedContainer is what a published container page says about itself.
type RecordedContainer struct {
	Revision string
	ChildIDs []string

	// Readable is false when the page could not be read or parsed.
	Readable bool
}

// Snapshot is the published state observed before a run.
type Snapshot struct {
	Published map[catalog.Kind]map[string]struct{}
	Recorded  map[string]RecordedContainer
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Published: map[catalog.Kind]map[string]struct{}{
			catalog.Movie:  {},
			catalog.Series: {},
		},
		Recorded: make(map[string]RecordedContainer),
	}
}

// IsPublished reports whether an artifact exists for kind and id.
func (s *Snapshot) IsPublished(kind catalog.Kind, id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Published[kind][id]
	return ok
}
