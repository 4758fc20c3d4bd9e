package reconcile

import (
	"context"
	"errors"
	"testing"

	"catalog-sync/core/catalog"
	"catalog-sync/core/enrich"
	"catalog-sync/core/listing"
	"catalog-sync/core/ordering"
	"catalog-sync/core/publish"
	"catalog-sync/core/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const embedBase = "https://abyss.to/e"

type fakeLister struct {
	children map[string][]listing.Item
	errs     map[string]error
	calls    []string
}

func (f *fakeLister) List(_ context.Context, containerID string) ([]listing.Item, error) {
	f.calls = append(f.calls, containerID)
	if err := f.errs[containerID]; err != nil {
		return nil, err
	}
	return f.children[containerID], nil
}

func newEnricher() *enrich.Enricher {
	cfg := enrich.Config{PlaceholderBaseURL: "https://placehold.test/?text="}
	return enrich.NewEnricher(cfg, enrich.NewParseNormalizer(), nil, enrich.NewCache("meta_cache.json"), zap.NewNop())
}

func newEngine(lister listing.Lister, policy ContainerPolicy) *Engine {
	return NewEngine(newEnricher(), lister, render.New(embedBase), catalog.NewLayout(catalog.Config{}), policy, zap.NewNop())
}

func scenarioItems() []listing.Item {
	return []listing.Item{
		{ID: "m1", RawName: "Movie.One.2021.1080p.mkv"},
		{ID: "", RawName: "orphan"},
		{ID: "s1", RawName: "Series One", IsContainer: true},
	}
}

func scenarioLister() *fakeLister {
	return &fakeLister{children: map[string][]listing.Item{
		"s1": {
			{ID: "e2", RawName: "Episode 2"},
			{ID: "e1", RawName: "Episode 1"},
			{ID: "", RawName: "Episode 3"},
		},
	}}
}

func publishedSeries(t *testing.T, target *publish.Memory, id string, childIDs ...string) string {
	t.Helper()
	children := make([]ordering.Child, 0, len(childIDs))
	for _, c := range childIDs {
		children = append(children, ordering.Child{ID: c, Name: c})
	}
	page, err := render.New(embedBase).Container(catalog.Entry{ID: id, Kind: catalog.Series}, children)
	require.NoError(t, err)
	return target.Put("series/"+id+".html", page)
}

func TestSynchronize_Scenario(t *testing.T) {
	engine := newEngine(scenarioLister(), PolicyDetect)

	plan, err := engine.Synchronize(context.Background(), scenarioItems(), NewSnapshot())
	require.NoError(t, err)

	require.Len(t, plan.Entries, 2)
	assert.Equal(t, "m1", plan.Entries[0].ID)
	assert.Equal(t, catalog.Movie, plan.Entries[0].Kind)
	assert.Equal(t, "Movie One", plan.Entries[0].Title)
	assert.Equal(t, "2021", plan.Entries[0].Year)
	assert.Equal(t, "watch/m1.html", plan.Entries[0].ArtifactPath)
	assert.Equal(t, "s1", plan.Entries[1].ID)
	assert.Equal(t, "series/s1.html", plan.Entries[1].ArtifactPath)

	ops := plan.Operations()
	require.Len(t, ops, 2)
	assert.True(t, ops[0].IsCreate())
	assert.True(t, ops[1].IsCreate())

	ids, err := render.ParseChildren(ops[1].Content)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, ids)

	assert.Equal(t, PlanSummary{TotalItems: 2, DroppedItems: 1, Movies: 1, Series: 1, Creates: 2}, plan.Summary)
}

func TestSynchronize_MissingIDsProduceNothing(t *testing.T) {
	engine := newEngine(&fakeLister{}, PolicyDetect)

	plan, err := engine.Synchronize(context.Background(), []listing.Item{{RawName: "a"}, {RawName: "b", IsContainer: true}}, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Entries)
	assert.Empty(t, plan.Decisions)
	assert.Equal(t, 2, plan.Summary.DroppedItems)
}

func TestSynchronize_NaturalChildOrder(t *testing.T) {
	lister := &fakeLister{children: map[string][]listing.Item{
		"s1": {
			{ID: "c10", RawName: "Episode 10"},
			{ID: "c2", RawName: "Episode 2"},
			{ID: "c1", RawName: "Episode 1"},
		},
	}}
	plan, err := newEngine(lister, PolicyDetect).Synchronize(context.Background(),
		[]listing.Item{{ID: "s1", RawName: "Show", IsContainer: true}}, nil)
	require.NoError(t, err)

	ids, err := render.ParseChildren(plan.Operations()[0].Content)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c10"}, ids)
}

func TestSynchronize_ReleaseNamedEpisodes(t *testing.T) {
	lister := &fakeLister{children: map[string][]listing.Item{
		"s1": {
			{ID: "e10", RawName: "Show.S01E10.720p.mkv"},
			{ID: "e2", RawName: "Show.S01E02.720p.mkv"},
			{ID: "e1", RawName: "Show.S01E01.720p.mkv"},
		},
	}}
	plan, err := newEngine(lister, PolicyDetect).Synchronize(context.Background(),
		[]listing.Item{{ID: "s1", RawName: "Show", IsContainer: true}}, nil)
	require.NoError(t, err)

	page := plan.Operations()[0].Content
	ids, err := render.ParseChildren(page)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2", "e10"}, ids)
	assert.Contains(t, string(page), "1. Show S01E01")
	assert.Contains(t, string(page), "2. Show S01E02")
	assert.Contains(t, string(page), "3. Show S01E10")
}

func TestSynchronize_PathLikeIDsAreDropped(t *testing.T) {
	lister := &fakeLister{children: map[string][]listing.Item{
		"s1": {
			{ID: "e1", RawName: "Episode 1"},
			{ID: "../watch/m1", RawName: "Episode 2"},
		},
	}}
	plan, err := newEngine(lister, PolicyDetect).Synchronize(context.Background(), []listing.Item{
		{ID: "s1", RawName: "Series One", IsContainer: true},
		{ID: "../series/s1", RawName: "Intruder"},
		{ID: `..\series\s1`, RawName: "Intruder"},
		{ID: "a/b", RawName: "Nested"},
	}, nil)
	require.NoError(t, err)

	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "series/s1.html", plan.Entries[0].ArtifactPath)
	assert.Equal(t, 3, plan.Summary.DroppedItems)

	ops := plan.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, "series/s1.html", ops[0].Path)
	ids, err := render.ParseChildren(ops[0].Content)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, ids)
}

func TestSynchronize_PublishedLeafIsSkipped(t *testing.T) {
	snap := NewSnapshot()
	snap.Published[catalog.Movie]["m1"] = struct{}{}

	plan, err := newEngine(&fakeLister{}, PolicyAlways).Synchronize(context.Background(),
		[]listing.Item{{ID: "m1", RawName: "Movie One"}}, snap)
	require.NoError(t, err)

	require.Len(t, plan.Entries, 1, "entries are produced for skipped items")
	assert.Equal(t, ActionSkip, plan.Decisions[0].Action)
	assert.Empty(t, plan.Operations())
}

func TestSynchronize_ContainerDetect(t *testing.T) {
	items := []listing.Item{{ID: "s1", RawName: "Series One", IsContainer: true}}

	t.Run("unchanged children are skipped", func(t *testing.T) {
		snap := NewSnapshot()
		snap.Published[catalog.Series]["s1"] = struct{}{}
		snap.Recorded["s1"] = RecordedContainer{Revision: "7", ChildIDs: []string{"e1", "e2"}, Readable: true}

		plan, err := newEngine(scenarioLister(), PolicyDetect).Synchronize(context.Background(), items, snap)
		require.NoError(t, err)
		assert.Equal(t, ActionSkip, plan.Decisions[0].Action)
	})

	t.Run("changed children are republished against recorded revision", func(t *testing.T) {
		snap := NewSnapshot()
		snap.Published[catalog.Series]["s1"] = struct{}{}
		snap.Recorded["s1"] = RecordedContainer{Revision: "7", ChildIDs: []string{"e1"}, Readable: true}

		plan, err := newEngine(scenarioLister(), PolicyDetect).Synchronize(context.Background(), items, snap)
		require.NoError(t, err)
		d := plan.Decisions[0]
		assert.Equal(t, ActionUpdate, d.Action)
		require.NotNil(t, d.Operation)
		assert.Equal(t, "7", d.Operation.ExpectedRevision)
	})

	t.Run("reordered children are republished", func(t *testing.T) {
		snap := NewSnapshot()
		snap.Published[catalog.Series]["s1"] = struct{}{}
		snap.Recorded["s1"] = RecordedContainer{Revision: "7", ChildIDs: []string{"e2", "e1"}, Readable: true}

		plan, err := newEngine(scenarioLister(), PolicyDetect).Synchronize(context.Background(), items, snap)
		require.NoError(t, err)
		assert.Equal(t, ActionUpdate, plan.Decisions[0].Action)
	})

	t.Run("unreadable recorded state is republished", func(t *testing.T) {
		snap := NewSnapshot()
		snap.Published[catalog.Series]["s1"] = struct{}{}
		snap.Recorded["s1"] = RecordedContainer{Revision: "3"}

		plan, err := newEngine(scenarioLister(), PolicyDetect).Synchronize(context.Background(), items, snap)
		require.NoError(t, err)
		assert.Equal(t, ActionUpdate, plan.Decisions[0].Action)
		assert.Equal(t, "3", plan.Decisions[0].Operation.ExpectedRevision)
	})
}

func TestSynchronize_ContainerAlways(t *testing.T) {
	snap := NewSnapshot()
	snap.Published[catalog.Series]["s1"] = struct{}{}
	snap.Recorded["s1"] = RecordedContainer{Revision: "7", ChildIDs: []string{"e1", "e2"}, Readable: true}

	plan, err := newEngine(scenarioLister(), PolicyAlways).Synchronize(context.Background(),
		[]listing.Item{{ID: "s1", RawName: "Series One", IsContainer: true}}, snap)
	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, plan.Decisions[0].Action)
	assert.Equal(t, 1, plan.Summary.Updates)
}

func TestSynchronize_ChildListingFailure(t *testing.T) {
	lister := &fakeLister{errs: map[string]error{"s1": errors.New("timeout"), "s2": errors.New("timeout")}}
	snap := NewSnapshot()
	snap.Published[catalog.Series]["s2"] = struct{}{}

	plan, err := newEngine(lister, PolicyAlways).Synchronize(context.Background(), []listing.Item{
		{ID: "s1", RawName: "New Series", IsContainer: true},
		{ID: "s2", RawName: "Old Series", IsContainer: true},
		{ID: "m1", RawName: "Movie"},
	}, snap)
	require.NoError(t, err)

	require.Len(t, plan.Decisions, 3)
	assert.Equal(t, ActionCreate, plan.Decisions[0].Action)
	assert.Contains(t, string(plan.Decisions[0].Operation.Content), "No items")
	assert.Equal(t, ActionSkip, plan.Decisions[1].Action)
	assert.Equal(t, ActionCreate, plan.Decisions[2].Action)
	assert.Equal(t, 2, plan.Summary.ChildListingFailures)
}

func TestSynchronize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(&fakeLister{}, PolicyDetect).Synchronize(ctx, []listing.Item{{ID: "m1", RawName: "x"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyDetect, p)

	p, err = ParsePolicy(" Always ")
	require.NoError(t, err)
	assert.Equal(t, PolicyAlways, p)

	_, err = ParsePolicy("never")
	assert.Error(t, err)
}
