package reconcile

import (
	"context"
	"fmt"
	"slices"

	"catalog-sync/core/catalog"
	"catalog-sync/core/listing"
	"catalog-sync/core/metrics"
	"catalog-sync/core/ordering"
	"catalog-sync/core/publish"

	"go.uber.org/zap"
)

// Engine plans the publication of a remote listing.
type Engine struct {
	enricher Enricher
	lister   listing.Lister
	renderer Renderer
	layout   catalog.Layout
	policy   ContainerPolicy
	log      *zap.Logger
}

// NewEngine creates an engine. lister is used to list container children.
func NewEngine(enricher Enricher, lister listing.Lister, renderer Renderer, layout catalog.Layout, policy ContainerPolicy, log *zap.Logger) *Engine {
	if policy == "" {
		policy = PolicyDetect
	}
	return &Engine{
		enricher: enricher,
		lister:   lister,
		renderer: renderer,
		layout:   layout,
		policy:   policy,
		log:      log,
	}
}

// Synchronize walks items in order and returns one entry and one decision per
// item with a usable identifier. Items without one are dropped.
func (e *Engine) Synchronize(ctx context.Context, items []listing.Item, snap *Snapshot) (*Plan, error) {
	if snap == nil {
		snap = NewSnapshot()
	}

	valid := make([]listing.Item, 0, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if !catalog.ValidID(item.ID) {
			e.log.Warn("Item id not usable as a path, dropped", zap.String("id", item.ID))
			continue
		}
		valid = append(valid, item)
		names = append(names, item.RawName)
	}
	e.enricher.Prefetch(ctx, names)

	plan := &Plan{
		Entries:   make([]catalog.Entry, 0, len(valid)),
		Decisions: make([]Decision, 0, len(valid)),
	}
	plan.Summary.DroppedItems = len(items) - len(valid)

	for _, item := range valid {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("synchronize: %w", err)
		}

		entry := e.entryFor(ctx, item)
		plan.Entries = append(plan.Entries, entry)
		metrics.RecordItem(string(entry.Kind))

		var (
			decision Decision
			err      error
		)
		if entry.Kind == catalog.Series {
			plan.Summary.Series++
			decision, err = e.decideContainer(ctx, entry, snap, &plan.Summary)
		} else {
			plan.Summary.Movies++
			decision, err = e.decideLeaf(entry, snap)
		}
		if err != nil {
			return nil, err
		}

		switch decision.Action {
		case ActionCreate:
			plan.Summary.Creates++
		case ActionUpdate:
			plan.Summary.Updates++
		default:
			plan.Summary.Skips++
		}
		plan.Decisions = append(plan.Decisions, decision)
	}
	plan.Summary.TotalItems = len(plan.Entries)

	return plan, nil
}

func (e *Engine) entryFor(ctx context.Context, item listing.Item) catalog.Entry {
	kind := catalog.KindOf(item.IsContainer)
	md := e.enricher.Enrich(ctx, item.RawName)
	return catalog.Entry{
		ID:           item.ID,
		Title:        md.Title,
		Year:         md.Year,
		ArtifactPath: e.layout.ArtifactPath(kind, item.ID),
		Kind:         kind,
		PosterRef:    md.PosterRef,
		BackdropRef:  md.BackdropRef,
		Rating:       md.Rating,
	}
}

func (e *Engine) decideLeaf(entry catalog.Entry, snap *Snapshot) (Decision, error) {
	if snap.IsPublished(entry.Kind, entry.ID) {
		return Decision{Entry: entry, Action: ActionSkip, Reason: "already published"}, nil
	}
	content, err := e.renderer.Leaf(entry)
	if err != nil {
		return Decision{}, fmt.Errorf("render %s: %w", entry.ArtifactPath, err)
	}
	return Decision{
		Entry:     entry,
		Action:    ActionCreate,
		Reason:    "new item",
		Operation: &publish.Operation{Path: entry.ArtifactPath, Content: content, Reason: "new item"},
	}, nil
}

func (e *Engine) decideContainer(ctx context.Context, entry catalog.Entry, snap *Snapshot, summary *PlanSummary) (Decision, error) {
	published := snap.IsPublished(entry.Kind, entry.ID)

	children, listErr := e.children(ctx, entry.ID)
	if listErr != nil {
		summary.ChildListingFailures++
		e.log.Warn("Child listing failed",
			zap.String("id", entry.ID),
			zap.Bool("published", published),
			zap.Error(listErr))
		if published {
			return Decision{Entry: entry, Action: ActionSkip, Reason: "child listing failed, keeping published page"}, nil
		}
	}

	action, reason := ActionCreate, "new item"
	expected := ""
	if published {
		recorded, known := snap.Recorded[entry.ID]
		switch {
		case e.policy == PolicyAlways:
			reason = "container policy always"
		case !known || !recorded.Readable:
			reason = "recorded children unreadable"
		case !sameChildren(recorded.ChildIDs, children):
			reason = fmt.Sprintf("children changed (%d -> %d)", len(recorded.ChildIDs), len(children))
		default:
			return Decision{Entry: entry, Action: ActionSkip, Reason: "children unchanged"}, nil
		}
		action = ActionUpdate
		expected = recorded.Revision
	} else if listErr != nil {
		reason = "new item, children unavailable"
	}

	content, err := e.renderer.Container(entry, children)
	if err != nil {
		return Decision{}, fmt.Errorf("render %s: %w", entry.ArtifactPath, err)
	}
	return Decision{
		Entry:  entry,
		Action: action,
		Reason: reason,
		Operation: &publish.Operation{
			Path:             entry.ArtifactPath,
			Content:          content,
			ExpectedRevision: expected,
			Reason:           reason,
		},
	}, nil
}

// children lists and orders a container's children. Children without a
// usable identifier are dropped.
func (e *Engine) children(ctx context.Context, containerID string) ([]ordering.Child, error) {
	items, err := e.lister.List(ctx, containerID)
	if err != nil {
		return nil, err
	}
	children := make([]ordering.Child, 0, len(items))
	for _, item := range items {
		if !catalog.ValidID(item.ID) {
			continue
		}
		children = append(children, ordering.Child{ID: item.ID, Name: e.enricher.DisplayName(item.RawName)})
	}
	return ordering.Order(children), nil
}

func sameChildren(recorded []string, children []ordering.Child) bool {
	ids := make([]string, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}
	return slices.Equal(recorded, ids)
}
