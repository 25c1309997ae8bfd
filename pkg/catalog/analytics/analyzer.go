// Package analytics aggregates catalog distributions and collection progress.
package analytics

import (
	"math"
	"sort"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

// Analyzer counts item attributes. It is not safe for concurrent use.
type Analyzer struct {
	total        int
	byType       map[string]int
	byRarity     map[string]int
	byStage      map[string]int
	byAcquire    map[string]int
	byCategory   map[string]int
	byCollection map[string]int
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		byType:       make(map[string]int),
		byRarity:     make(map[string]int),
		byStage:      make(map[string]int),
		byAcquire:    make(map[string]int),
		byCategory:   make(map[string]int),
		byCollection: make(map[string]int),
	}
}

// Process consumes one item.
func (a *Analyzer) Process(it item.Item) {
	a.total++
	a.byType[string(it.Type)]++
	a.byRarity[string(it.Rarity)]++
	a.byStage[string(it.GameStage)]++
	a.byCategory[it.Category]++
	a.byCollection[string(it.CollectionType)]++
	for _, m := range it.Acquisition {
		a.byAcquire[string(m)]++
	}
}

// Stats is a snapshot of the distributions.
type Stats struct {
	TotalItems       int            `json:"totalItems"`
	ByType           map[string]int `json:"byType"`
	ByRarity         map[string]int `json:"byRarity"`
	ByGameStage      map[string]int `json:"byGameStage"`
	ByAcquisition    map[string]int `json:"byAcquisition"`
	ByCategory       map[string]int `json:"byCategory"`
	ByCollectionType map[string]int `json:"byCollectionType"`
}

// Snapshot copies the current counts.
func (a *Analyzer) Snapshot() Stats {
	return Stats{
		TotalItems:       a.total,
		ByType:           copyCounts(a.byType),
		ByRarity:         copyCounts(a.byRarity),
		ByGameStage:      copyCounts(a.byStage),
		ByAcquisition:    copyCounts(a.byAcquire),
		ByCategory:       copyCounts(a.byCategory),
		ByCollectionType: copyCounts(a.byCollection),
	}
}

// Summarize runs a fresh analyzer over items.
func Summarize(items []item.Item) Stats {
	a := NewAnalyzer()
	for _, it := range items {
		a.Process(it)
	}
	return a.Snapshot()
}

// Count is one entry of a ranked distribution.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Ranked orders counts by descending count, then key.
func Ranked(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for k, n := range counts {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Tally is owned-versus-total for one slice of the catalog.
type Tally struct {
	Total      int `json:"total"`
	Owned      int `json:"owned"`
	Percentage int `json:"percentage"`
}

// Progress reports how much of the catalog a player owns.
type Progress struct {
	Tally
	ByType           map[string]Tally `json:"byType"`
	ByCategory       map[string]Tally `json:"byCategory"`
	ByCollectionType map[string]Tally `json:"byCollectionType"`
}

// CalculateProgress tallies ownership over items.
func CalculateProgress(items []item.Item) Progress {
	p := Progress{
		ByType:           make(map[string]Tally),
		ByCategory:       make(map[string]Tally),
		ByCollectionType: make(map[string]Tally),
	}
	bump := func(m map[string]Tally, key string, owned bool) {
		t := m[key]
		t.Total++
		if owned {
			t.Owned++
		}
		m[key] = t
	}
	for _, it := range items {
		p.Total++
		if it.Owned {
			p.Owned++
		}
		bump(p.ByType, string(it.Type), it.Owned)
		bump(p.ByCategory, it.Category, it.Owned)
		bump(p.ByCollectionType, string(it.CollectionType), it.Owned)
	}

	p.Percentage = percent(p.Owned, p.Total)
	for _, m := range []map[string]Tally{p.ByType, p.ByCategory, p.ByCollectionType} {
		for k, t := range m {
			t.Percentage = percent(t.Owned, t.Total)
			m[k] = t
		}
	}
	return p
}

func percent(owned, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(owned) / float64(total)))
}
