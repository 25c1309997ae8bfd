package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/query"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/report"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store"
)

var _ store.Store = (*Store)(nil)

// Store is an in-memory implementation of store.Store for tests and
// ephemeral servers.
type Store struct {
	mu    sync.RWMutex
	items map[string]item.Item
	owned map[string]bool
	runs  map[string]report.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		items: make(map[string]item.Item),
		owned: make(map[string]bool),
		runs:  make(map[string]report.Run),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertItems inserts or replaces items keyed by ID.
func (s *Store) UpsertItems(ctx context.Context, items []item.Item) error {
	for _, it := range items {
		if it.ID == "" {
			return fmt.Errorf("%w: item without id", internalerr.ErrInvalidInput)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		c := it.Clone()
		c.Owned = false
		s.items[it.ID] = c
	}
	return nil
}

// GetItem returns an item by ID.
func (s *Store) GetItem(ctx context.Context, id string) (item.Item, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return item.Item{}, false, nil
	}
	return s.withOwned(it), true, nil
}

// ListItems returns items matching f ordered by ID.
func (s *Store) ListItems(ctx context.Context, f query.Filter) ([]item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]item.Item, 0, len(s.items))
	for _, it := range s.items {
		it = s.withOwned(it)
		if f.Match(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SetOwned flags an item as owned or not.
func (s *Store) SetOwned(ctx context.Context, id string, owned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("item %s: %w", id, internalerr.ErrNotFound)
	}
	if owned {
		s.owned[id] = true
	} else {
		delete(s.owned, id)
	}
	return nil
}

// OwnedIDs returns the set of owned item IDs.
func (s *Store) OwnedIDs(ctx context.Context) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.owned))
	for id := range s.owned {
		out[id] = true
	}
	return out, nil
}

// SaveRun stores a run keyed by ID.
func (s *Store) SaveRun(ctx context.Context, run report.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// LatestRun returns the run with the greatest ID.
func (s *Store) LatestRun(ctx context.Context) (report.Run, bool, error) {
	runs, _ := s.ListRuns(ctx, 1)
	if len(runs) == 0 {
		return report.Run{}, false, nil
	}
	return runs[0], true, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]report.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]report.Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) withOwned(it item.Item) item.Item {
	c := it.Clone()
	c.Owned = s.owned[it.ID]
	return c
}
