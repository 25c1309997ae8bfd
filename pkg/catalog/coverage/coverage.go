// Package coverage measures how a rule set exercises its keyword tables
// against a list of names.
package coverage

import (
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/classify"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/rules"
)

// Table names
const (
	TableDomain = "domain"
	TableRarity = "rarity"
	TableStage  = "stage"
)

// KeywordStat counts how often a keyword decided a field.
type KeywordStat struct {
	Table   string    `json:"table"`
	Domain  item.Type `json:"domain,omitempty"`
	Branch  string    `json:"branch,omitempty"`
	Group   string    `json:"group"`
	Keyword string    `json:"keyword"`
	Hits    int       `json:"hits"`
}

// Report summarizes a coverage run.
type Report struct {
	Names     int            `json:"names"`
	Keywords  []KeywordStat  `json:"keywords"`
	Unused    []KeywordStat  `json:"unused"`
	Defaulted map[string]int `json:"defaulted"`
	// Unmatched lists names no domain keyword matched, capped at MaxUnmatched.
	Unmatched []string `json:"unmatched"`
}

// MaxUnmatched caps Report.Unmatched.
const MaxUnmatched = 50

type key struct {
	table, domain, branch, group, keyword string
}

// Analyze classifies every name and attributes each decision to the keyword
// that made it. Keywords are reported in declaration order.
func Analyze(c *classify.Classifier, names []string) Report {
	set := c.Rules()
	hits := make(map[key]int)
	rep := Report{
		Names:     len(names),
		Keywords:  []KeywordStat{},
		Unused:    []KeywordStat{},
		Defaulted: make(map[string]int),
		Unmatched: []string{},
	}

	for _, name := range names {
		ex := c.Explain(name)
		for _, field := range ex.Defaulted() {
			rep.Defaulted[field]++
		}

		domainMatch := ex.Type
		if domainMatch == nil {
			domainMatch = ex.Category
		}
		if domainMatch != nil {
			hits[key{TableDomain, string(domainMatch.Domain), domainMatch.Branch, domainMatch.Group, domainMatch.Keyword}]++
		} else if len(rep.Unmatched) < MaxUnmatched {
			rep.Unmatched = append(rep.Unmatched, name)
		}
		if ex.Rarity != nil {
			hits[key{TableRarity, "", "", ex.Rarity.Group, ex.Rarity.Keyword}]++
		}
		if ex.Stage != nil {
			hits[key{TableStage, "", "", ex.Stage.Group, ex.Stage.Keyword}]++
		}
	}

	add := func(k key) {
		st := KeywordStat{
			Table:   k.table,
			Domain:  item.Type(k.domain),
			Branch:  k.branch,
			Group:   k.group,
			Keyword: k.keyword,
			Hits:    hits[k],
		}
		rep.Keywords = append(rep.Keywords, st)
		if st.Hits == 0 {
			rep.Unused = append(rep.Unused, st)
		}
	}

	for _, d := range set.Domains {
		for _, b := range d.Branches {
			for _, g := range b.Groups {
				for _, kw := range g.Keywords {
					add(key{TableDomain, string(d.Type), b.Name, g.Name, kw})
				}
			}
		}
	}
	groups := func(table string, gs []rules.Group) {
		for _, g := range gs {
			for _, kw := range g.Keywords {
				add(key{table, "", "", g.Name, kw})
			}
		}
	}
	groups(TableRarity, set.Rarity)
	groups(TableStage, set.Stages)

	return rep
}

// Coverage is the share of keywords that decided at least one field.
func (r Report) Coverage() float64 {
	if len(r.Keywords) == 0 {
		return 0
	}
	return float64(len(r.Keywords)-len(r.Unused)) / float64(len(r.Keywords))
}
