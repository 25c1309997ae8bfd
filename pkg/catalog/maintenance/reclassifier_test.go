package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/classify"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/rules"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store/memstore"
)

type fakeSource struct {
	items []item.Item
	idx   int
	err   error
}

func (f *fakeSource) Next(ctx context.Context) (item.Item, bool, error) {
	if f.err != nil {
		return item.Item{}, false, f.err
	}
	if f.idx >= len(f.items) {
		return item.Item{}, false, nil
	}
	it := f.items[f.idx]
	f.idx++
	return it, true, nil
}

// seed stores items classified without the tools domain, so pickaxes
// land in the weapon table.
func seed(t *testing.T, st *memstore.Store) {
	t.Helper()
	set := rules.Default()
	set.Domains = set.Domains[1:]
	old, err := classify.New(set)
	if err != nil {
		t.Fatal(err)
	}
	items := []item.Item{
		old.Item(item.RawItem{ID: "molten-pickaxe", Name: "Molten Pickaxe", Recipes: []string{"Hellstone Bar"}}),
		old.Item(item.RawItem{ID: "copper-shortsword", Name: "Copper Shortsword"}),
	}
	if items[0].Type != item.Weapon {
		t.Fatalf("seed expected weapon, got %s", items[0].Type)
	}
	if err := st.UpsertItems(context.Background(), items); err != nil {
		t.Fatal(err)
	}
}

func TestReclassifierUpdatesChangedItems(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seed(t, st)
	if err := st.SetOwned(ctx, "molten-pickaxe", true); err != nil {
		t.Fatal(err)
	}

	r := Reclassifier{Store: st, Classifier: classify.Default()}
	res, err := r.Reclassify(ctx)
	if err != nil {
		t.Fatalf("Reclassify: %v", err)
	}
	if res.Processed != 2 || res.Updated != 1 || res.Errors != 0 {
		t.Fatalf("unexpected result %+v", res)
	}

	got, _, err := st.GetItem(ctx, "molten-pickaxe")
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != item.Tool || got.Category != "Tools" {
		t.Errorf("expected tool/Tools, got %s/%s", got.Type, got.Category)
	}
	if got.IconPath != "/assets/icons/tools/molten-pickaxe.png" {
		t.Errorf("icon path not updated: %s", got.IconPath)
	}
	if len(got.Acquisition) != 1 || got.Acquisition[0] != item.Craft {
		t.Errorf("acquisition should be preserved, got %v", got.Acquisition)
	}
	if !got.Owned {
		t.Error("ownership should be preserved")
	}
}

func TestReclassifierDryRun(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	seed(t, st)

	r := Reclassifier{Store: st, Classifier: classify.Default(), DryRun: true}
	res, err := r.Reclassify(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Changes) != 1 || res.Updated != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Changes[0].After.Type != item.Tool {
		t.Errorf("change should show tool, got %s", res.Changes[0].After.Type)
	}

	got, _, _ := st.GetItem(ctx, "molten-pickaxe")
	if got.Type != item.Weapon {
		t.Errorf("dry run must not write, got %s", got.Type)
	}
}

func TestReclassifierSourceError(t *testing.T) {
	r := Reclassifier{
		Store:      memstore.New(),
		Classifier: classify.Default(),
		Source:     &fakeSource{err: errors.New("boom")},
	}
	if _, err := r.Reclassify(context.Background()); err == nil {
		t.Fatal("expected source error")
	}
}

func TestReclassifierInvalidConfig(t *testing.T) {
	r := Reclassifier{}
	if _, err := r.Reclassify(context.Background()); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestReclassifierUpsertErrorsAreCounted(t *testing.T) {
	src := &fakeSource{items: []item.Item{{Name: "Molten Pickaxe", Type: item.Weapon}}}
	r := Reclassifier{Store: memstore.New(), Classifier: classify.Default(), Source: src}

	res, err := r.Reclassify(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Errors != 1 || res.Updated != 0 {
		t.Fatalf("expected one upsert error, got %+v", res)
	}
}
