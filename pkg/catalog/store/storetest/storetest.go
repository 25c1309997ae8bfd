// Package storetest holds behaviour checks shared by store implementations.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/query"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/report"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store"
)

// Items returns a small fixed catalog.
func Items() []item.Item {
	return []item.Item{
		{ID: "copper-shortsword", Name: "Copper Shortsword", Type: item.Weapon, Category: "Melee", Subcategory: "sword", SubSubcategory: "sword",
			Rarity: item.White, GameStage: item.PreHardmode, Acquisition: []item.Acquisition{item.Craft}, CollectionType: item.Collectible,
			IconPath: "/assets/icons/weapons/copper-shortsword.png"},
		{ID: "guide", Name: "Guide", Type: item.NPC, Category: "Merchants", Subcategory: "merchants", SubSubcategory: "guide",
			Rarity: item.White, GameStage: item.PreHardmode, Acquisition: []item.Acquisition{item.Find}, CollectionType: item.Reference,
			IconPath: "/assets/icons/npcs/guide.png"},
		{ID: "hermes-boots", Name: "Hermes Boots", Type: item.Accessory, Category: "Movement", Subcategory: "other", SubSubcategory: "other",
			Rarity: item.Blue, GameStage: item.PreHardmode, Acquisition: []item.Acquisition{item.Find, item.Buy}, CollectionType: item.Collectible,
			IconPath: "/assets/icons/accessories/hermes-boots.png"},
	}
}

// Run exercises the store.Store contract against stores built by open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("ItemsRoundTrip", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		require.NoError(t, s.UpsertItems(ctx, Items()))

		got, ok, err := s.GetItem(ctx, "hermes-boots")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Items()[2], got)

		_, ok, err = s.GetItem(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("UpsertReplaces", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		require.NoError(t, s.UpsertItems(ctx, Items()))

		changed := Items()[0]
		changed.Category = "Ranged"
		changed.Owned = true
		require.NoError(t, s.UpsertItems(ctx, []item.Item{changed}))

		got, _, err := s.GetItem(ctx, changed.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ranged", got.Category)
		assert.False(t, got.Owned, "ownership is not set through upsert")

		all, err := s.ListItems(ctx, query.Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("UpsertRejectsMissingID", func(t *testing.T) {
		s := open(t)
		err := s.UpsertItems(context.Background(), []item.Item{{Name: "Nameless"}})
		assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
	})

	t.Run("ListItemsFilters", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		require.NoError(t, s.UpsertItems(ctx, Items()))
		require.NoError(t, s.SetOwned(ctx, "guide", true))

		all, err := s.ListItems(ctx, query.Filter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "copper-shortsword", all[0].ID)
		assert.Equal(t, "guide", all[1].ID)
		assert.True(t, all[1].Owned)

		weapons, err := s.ListItems(ctx, query.Filter{Type: item.Weapon})
		require.NoError(t, err)
		require.Len(t, weapons, 1)

		yes, no := true, false
		owned, err := s.ListItems(ctx, query.Filter{Owned: &yes})
		require.NoError(t, err)
		require.Len(t, owned, 1)
		assert.Equal(t, "guide", owned[0].ID)

		notOwned, err := s.ListItems(ctx, query.Filter{Owned: &no, Rarity: item.White})
		require.NoError(t, err)
		require.Len(t, notOwned, 1)
		assert.Equal(t, "copper-shortsword", notOwned[0].ID)

		search, err := s.ListItems(ctx, query.Filter{Search: "BOOTS"})
		require.NoError(t, err)
		require.Len(t, search, 1)
		assert.Equal(t, "hermes-boots", search[0].ID)
	})

	t.Run("Ownership", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		require.NoError(t, s.UpsertItems(ctx, Items()))

		require.NoError(t, s.SetOwned(ctx, "guide", true))
		require.NoError(t, s.SetOwned(ctx, "guide", true))
		require.NoError(t, s.SetOwned(ctx, "hermes-boots", true))
		require.NoError(t, s.SetOwned(ctx, "hermes-boots", false))

		ids, err := s.OwnedIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"guide": true}, ids)

		err = s.SetOwned(ctx, "missing", true)
		assert.ErrorIs(t, err, internalerr.ErrNotFound)
	})

	t.Run("Runs", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		_, ok, err := s.LatestRun(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
		older := report.Run{ID: "01JA0000000000000000000001", Source: "a.json", GeneratedAt: base, IsValid: true, QualityScore: 100}
		newer := report.Run{ID: "01JA0000000000000000000002", Source: "b.json", GeneratedAt: base.Add(time.Minute), QualityScore: 40}
		newer.Summary.TotalItems = 5
		newer.Summary.FatalCount = 3
		require.NoError(t, s.SaveRun(ctx, older))
		require.NoError(t, s.SaveRun(ctx, newer))

		latest, ok, err := s.LatestRun(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, newer.ID, latest.ID)
		assert.Equal(t, "b.json", latest.Source)
		assert.Equal(t, 40, latest.QualityScore)
		assert.Equal(t, 3, latest.Summary.FatalCount)
		assert.True(t, latest.GeneratedAt.Equal(newer.GeneratedAt))

		runs, err := s.ListRuns(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, older.ID, runs[1].ID)
	})
}
