package store

import (
	"context"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/query"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/report"
)

// Store persists classified items, ownership flags and build runs
type Store interface {
	Close() error

	// Items. Stored items report their ownership flag in Item.Owned;
	// the flag passed in on upsert is ignored.
	UpsertItems(ctx context.Context, items []item.Item) error
	GetItem(ctx context.Context, id string) (item.Item, bool, error)
	ListItems(ctx context.Context, f query.Filter) ([]item.Item, error)

	// Ownership
	SetOwned(ctx context.Context, id string, owned bool) error
	OwnedIDs(ctx context.Context) (map[string]bool, error)

	// Runs
	SaveRun(ctx context.Context, run report.Run) error
	LatestRun(ctx context.Context) (report.Run, bool, error)
	ListRuns(ctx context.Context, limit int) ([]report.Run, error)
}
