package maintenance

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/classify"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/query"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store"
)

// ItemSource abstracts how we iterate items for reclassification.
type ItemSource interface {
	Next(ctx context.Context) (item.Item, bool, error)
}

// Reclassifier replays stored items through the current rule tables after
// they change. Acquisition and ownership are kept.
type Reclassifier struct {
	Store      store.Store
	Classifier *classify.Classifier
	Source     ItemSource // defaults to a snapshot of Store
	Logger     *zap.Logger
	DryRun     bool
}

// Result summarizes the reclassification run.
type Result struct {
	Processed int
	Updated   int
	Errors    int
	Changes   []Change
}

// Change records one item whose classification moved.
type Change struct {
	ID     string
	Before item.Item
	After  item.Item
}

// Reclassify re-derives every item from its name and upserts the ones that
// changed.
func (r *Reclassifier) Reclassify(ctx context.Context) (Result, error) {
	var res Result
	if r.Store == nil || r.Classifier == nil {
		return res, errors.New("reclassifier: invalid configuration")
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	src := r.Source
	if src == nil {
		snap, err := NewStoreSource(ctx, r.Store)
		if err != nil {
			return res, err
		}
		src = snap
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		it, ok, err := src.Next(ctx)
		if err != nil {
			return res, fmt.Errorf("next item: %w", err)
		}
		if !ok {
			break
		}
		res.Processed++

		updated := Reapply(r.Classifier, it)
		if sameClassification(it, updated) {
			continue
		}
		res.Changes = append(res.Changes, Change{ID: it.ID, Before: it, After: updated})
		if r.DryRun {
			continue
		}
		if err := r.Store.UpsertItems(ctx, []item.Item{updated}); err != nil {
			res.Errors++
			log.Warn("reclassify upsert failed", zap.String("id", it.ID), zap.Error(err))
			continue
		}
		res.Updated++
	}

	log.Info("reclassified items",
		zap.Int("processed", res.Processed),
		zap.Int("changed", len(res.Changes)),
		zap.Int("updated", res.Updated),
		zap.Int("errors", res.Errors),
	)
	return res, nil
}

// Reapply returns it with every name-derived field recomputed by c.
func Reapply(c *classify.Classifier, it item.Item) item.Item {
	r := c.Classify(it.Name)
	out := it.Clone()
	out.Type = r.Type
	out.Category = r.Category
	out.Subcategory = r.Subcategory
	out.SubSubcategory = r.SubSubcategory
	out.Rarity = r.Rarity
	out.GameStage = r.GameStage
	out.CollectionType = r.CollectionType
	out.IconPath = item.IconPath(r.Type, it.ID)
	return out
}

func sameClassification(a, b item.Item) bool {
	return a.Type == b.Type &&
		a.Category == b.Category &&
		a.Subcategory == b.Subcategory &&
		a.SubSubcategory == b.SubSubcategory &&
		a.Rarity == b.Rarity &&
		a.GameStage == b.GameStage &&
		a.CollectionType == b.CollectionType &&
		a.IconPath == b.IconPath
}

// StoreSource iterates a snapshot of a store's items.
type StoreSource struct {
	items []item.Item
	idx   int
}

// NewStoreSource snapshots every item in s.
func NewStoreSource(ctx context.Context, s store.Store) (*StoreSource, error) {
	items, err := s.ListItems(ctx, query.Filter{})
	if err != nil {
		return nil, fmt.Errorf("snapshot items: %w", err)
	}
	return &StoreSource{items: items}, nil
}

// Next implements ItemSource.
func (s *StoreSource) Next(ctx context.Context) (item.Item, bool, error) {
	if s.idx >= len(s.items) {
		return item.Item{}, false, nil
	}
	it := s.items[s.idx]
	s.idx++
	return it, true, nil
}
