// Package query filters, searches and orders item lists.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

// Filter selects items. Zero fields match everything.
type Filter struct {
	Type        item.Type
	Category    string
	Subcategory string
	Rarity      item.Rarity
	GameStage   item.GameStage
	Owned       *bool
	Search      string // case-insensitive, over name, category and subcategory
}

// Sort fields
const (
	ByName      = "name"
	ByCategory  = "category"
	ByRarity    = "rarity"
	ByGameStage = "gameStage"
	ByOwned     = "owned"
)

// Order describes how results are sorted.
type Order struct {
	Field string
	Desc  bool
}

// Match reports whether it passes f.
func (f Filter) Match(it item.Item) bool {
	if f.Type != "" && it.Type != f.Type {
		return false
	}
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	if f.Subcategory != "" && it.Subcategory != f.Subcategory {
		return false
	}
	if f.Rarity != "" && it.Rarity != f.Rarity {
		return false
	}
	if f.GameStage != "" && it.GameStage != f.GameStage {
		return false
	}
	if f.Owned != nil && it.Owned != *f.Owned {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.Category), q) &&
			!strings.Contains(strings.ToLower(it.Subcategory), q) {
			return false
		}
	}
	return true
}

// Apply returns the items matching f, in input order.
func Apply(items []item.Item, f Filter) []item.Item {
	out := make([]item.Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Sort orders items in place. Ties keep their relative order.
func Sort(items []item.Item, o Order) {
	if o.Field == "" {
		return
	}
	less := lessFunc(o.Field)
	sort.SliceStable(items, func(i, j int) bool {
		if o.Desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

func lessFunc(field string) func(a, b item.Item) bool {
	switch field {
	case ByCategory:
		return func(a, b item.Item) bool { return a.Category < b.Category }
	case ByRarity:
		return func(a, b item.Item) bool { return a.Rarity.Rank() < b.Rarity.Rank() }
	case ByGameStage:
		return func(a, b item.Item) bool { return a.GameStage.Rank() < b.GameStage.Rank() }
	case ByOwned:
		return func(a, b item.Item) bool { return !a.Owned && b.Owned }
	default:
		return func(a, b item.Item) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
}

// Parse reads a filter and order from URL query parameters: type, category,
// subcategory, rarity, stage, owned, q, sort and order (asc or desc).
func Parse(v url.Values) (Filter, Order, error) {
	f := Filter{
		Type:        item.Type(v.Get("type")),
		Category:    v.Get("category"),
		Subcategory: v.Get("subcategory"),
		Rarity:      item.Rarity(v.Get("rarity")),
		GameStage:   item.GameStage(v.Get("stage")),
		Search:      v.Get("q"),
	}
	if f.Type != "" && !f.Type.Valid() {
		return Filter{}, Order{}, fmt.Errorf("%w: type %q", internalerr.ErrInvalidInput, f.Type)
	}
	if f.Rarity != "" && !f.Rarity.Valid() {
		return Filter{}, Order{}, fmt.Errorf("%w: rarity %q", internalerr.ErrInvalidInput, f.Rarity)
	}
	if f.GameStage != "" && !f.GameStage.Valid() {
		return Filter{}, Order{}, fmt.Errorf("%w: stage %q", internalerr.ErrInvalidInput, f.GameStage)
	}
	if s := v.Get("owned"); s != "" {
		owned, err := strconv.ParseBool(s)
		if err != nil {
			return Filter{}, Order{}, fmt.Errorf("%w: owned %q", internalerr.ErrInvalidInput, s)
		}
		f.Owned = &owned
	}

	o := Order{Field: v.Get("sort")}
	switch o.Field {
	case "", ByName, ByCategory, ByRarity, ByGameStage, ByOwned:
	default:
		return Filter{}, Order{}, fmt.Errorf("%w: sort %q", internalerr.ErrInvalidInput, o.Field)
	}
	switch strings.ToLower(v.Get("order")) {
	case "", "asc":
	case "desc":
		o.Desc = true
	default:
		return Filter{}, Order{}, fmt.Errorf("%w: order %q", internalerr.ErrInvalidInput, v.Get("order"))
	}
	return f, o, nil
}
