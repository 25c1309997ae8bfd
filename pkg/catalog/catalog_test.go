package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/query"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store/memstore"
)

func raws() []item.RawItem {
	return []item.RawItem{
		{ID: "copper-shortsword", Name: "Copper Shortsword", Recipes: []string{"Copper Bar"}},
		{ID: "life-crystal", Name: "Life Crystal"},
		{ID: "guide", Name: "Guide"},
	}
}

func TestBuildKeepsValidSubset(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	c := New(Options{Store: st, Workers: 2})

	res, err := c.Build(ctx, raws(), BuildOptions{Source: "test"})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Classified)
	assert.False(t, res.Report.IsValid())
	require.Len(t, res.Report.Fatal, 1)
	assert.Equal(t, "life-crystal", res.Report.Fatal[0].ItemID)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "copper-shortsword", res.Items[0].ID)
	assert.Equal(t, "guide", res.Items[1].ID)
	assert.Equal(t, 2, res.Stats.TotalItems)
	assert.Equal(t, "test", res.Run.Source)
	assert.NotEmpty(t, res.Run.ID)

	stored, err := st.ListItems(ctx, query.Filter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	latest, ok, err := st.LatestRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.Run.ID, latest.ID)
}

func TestBuildSkipValidationKeepsEverything(t *testing.T) {
	c := New(Options{})
	res, err := c.Build(context.Background(), raws(), BuildOptions{SkipValidation: true})
	require.NoError(t, err)

	assert.Len(t, res.Items, 3)
	assert.True(t, res.Report.IsValid())
	assert.Equal(t, 3, res.Report.Summary.TotalItems)
}

func TestBuildSkipValidationStoresOnlyKeyedItems(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	c := New(Options{Store: st})

	in := append(raws(), item.RawItem{Name: "Nameless Blade"})
	res, err := c.Build(ctx, in, BuildOptions{SkipValidation: true})
	require.NoError(t, err)
	assert.Len(t, res.Items, 4)

	stored, err := st.ListItems(ctx, query.Filter{})
	require.NoError(t, err)
	assert.Len(t, stored, 3)
	for _, it := range stored {
		assert.NotEmpty(t, it.ID)
	}
}

func TestBuildMaxItems(t *testing.T) {
	c := New(Options{})
	res, err := c.Build(context.Background(), raws(), BuildOptions{MaxItems: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Classified)
	assert.True(t, res.Report.IsValid())
}

func TestClassifyAllPreservesOrder(t *testing.T) {
	names := []string{"Copper Shortsword", "Molten Pickaxe", "Guide", "Moon Lord", "Cloud in a Bottle"}
	var in []item.RawItem
	for i := 0; i < 250; i++ {
		in = append(in, item.RawItem{ID: fmt.Sprintf("item-%03d", i), Name: names[i%len(names)]})
	}

	c := New(Options{Workers: 7})
	out, err := c.ClassifyAll(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	seq := New(Options{Workers: 1})
	want, err := seq.ClassifyAll(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, want, out)

	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(Options{Store: memstore.New()})
	_, err := c.Build(ctx, raws(), BuildOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildIsDeterministic(t *testing.T) {
	c := New(Options{Workers: 4})
	first, err := c.Build(context.Background(), raws(), BuildOptions{})
	require.NoError(t, err)
	second, err := c.Build(context.Background(), raws(), BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.Report, second.Report)
	assert.NotEqual(t, first.Run.ID, second.Run.ID)
}

func TestProgressAndItems(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	c := New(Options{Store: st})
	_, err := c.Build(ctx, raws(), BuildOptions{})
	require.NoError(t, err)
	require.NoError(t, st.SetOwned(ctx, "guide", true))

	p, err := c.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, 1, p.Owned)
	assert.Equal(t, 50, p.Percentage)

	items, err := c.Items(ctx, query.Filter{}, query.Order{Field: query.ByName, Desc: true})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "guide", items[0].ID)
}

func TestValidateRecordsRun(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	c := New(Options{Store: st})

	items, err := c.ClassifyAll(ctx, raws())
	require.NoError(t, err)
	run, err := c.Validate(ctx, "items.json", items)
	require.NoError(t, err)
	assert.False(t, run.IsValid)
	assert.Equal(t, 2, run.Stats.TotalItems)

	_, ok, err := st.LatestRun(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreRequired(t *testing.T) {
	c := New(Options{})
	_, err := c.Progress(context.Background())
	assert.ErrorIs(t, err, internalerr.ErrStoreUnavailable)
	_, err = c.Items(context.Background(), query.Filter{}, query.Order{})
	assert.ErrorIs(t, err, internalerr.ErrStoreUnavailable)
	assert.NoError(t, c.Close())
}
