// Package classify derives catalog fields from an item's display name.
package classify

import (
	"strings"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/rules"
)

// Classifier applies an immutable rule set. It is safe for concurrent use.
type Classifier struct {
	set rules.Set
}

// Result holds the fields derived from a name.
type Result struct {
	Type           item.Type           `json:"type"`
	Category       string              `json:"category"`
	Subcategory    string              `json:"subcategory"`
	SubSubcategory string              `json:"subSubcategory"`
	Rarity         item.Rarity         `json:"rarity"`
	GameStage      item.GameStage      `json:"gameStage"`
	CollectionType item.CollectionType `json:"collectionType"`
}

// Match records which rule decided a field.
type Match struct {
	Domain  item.Type `json:"domain,omitempty"`
	Branch  string    `json:"branch,omitempty"`
	Label   string    `json:"label,omitempty"`
	Group   string    `json:"group"`
	Keyword string    `json:"keyword"`
}

// New validates set and returns a classifier over a private normalized copy.
func New(set rules.Set) (*Classifier, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{set: set.Normalized()}, nil
}

// Default returns a classifier over the built-in tables.
func Default() *Classifier {
	c, err := New(rules.Default())
	if err != nil {
		panic("classify: built-in rules invalid: " + err.Error())
	}
	return c
}

// Rules returns a copy of the normalized tables in use.
func (c *Classifier) Rules() rules.Set {
	return c.set.Clone()
}

// Classify derives every name-dependent field.
func (c *Classifier) Classify(name string) Result {
	lower := strings.ToLower(name)
	t, _ := c.detectType(lower)
	return c.derive(lower, t)
}

// ClassifyAs derives the dependent fields for an externally supplied type.
func (c *Classifier) ClassifyAs(name string, t item.Type) Result {
	return c.derive(strings.ToLower(name), t)
}

// Type returns only the detected type.
func (c *Classifier) Type(name string) item.Type {
	t, _ := c.detectType(strings.ToLower(name))
	return t
}

// Acquisition returns the ways raw can be obtained, craft first.
func (c *Classifier) Acquisition(raw item.RawItem) []item.Acquisition {
	var out []item.Acquisition
	seen := make(map[item.Acquisition]struct{})
	add := func(a item.Acquisition) {
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}

	if raw.HasRecipe() {
		add(item.Craft)
	}
	lower := strings.ToLower(raw.Name)
	for _, g := range c.set.Acquisition {
		if _, ok := firstKeyword(lower, g.Keywords); ok {
			add(item.Acquisition(g.Name))
		}
	}
	if len(out) == 0 {
		out = append(out, item.Find)
	}
	return out
}

// Item builds the full catalog record for raw.
func (c *Classifier) Item(raw item.RawItem) item.Item {
	r := c.Classify(raw.Name)
	return item.Item{
		ID:             raw.ID,
		Name:           raw.Name,
		Type:           r.Type,
		Category:       r.Category,
		Subcategory:    r.Subcategory,
		SubSubcategory: r.SubSubcategory,
		Rarity:         r.Rarity,
		GameStage:      r.GameStage,
		Acquisition:    c.Acquisition(raw),
		CollectionType: r.CollectionType,
		IconPath:       item.IconPath(r.Type, raw.ID),
	}
}

func (c *Classifier) detectType(lower string) (item.Type, *Match) {
	for _, d := range c.set.Domains {
		if d.Passive {
			continue
		}
		if m, ok := matchDomain(d, lower); ok {
			return d.Type, &m
		}
	}
	return c.set.DefaultType, nil
}

func (c *Classifier) derive(lower string, t item.Type) Result {
	res := Result{
		Type:           t,
		Category:       rules.OtherCategory,
		Subcategory:    rules.Other,
		SubSubcategory: rules.Other,
		CollectionType: item.CollectionTypeOf(t),
	}

	if d, ok := c.set.Domain(t); ok {
		m, found := matchDomain(d, lower)
		res.Category = d.Default
		if found {
			res.Category = m.Label
			res.SubSubcategory = underscore(m.Keyword)
		}
		switch d.Subcategory {
		case rules.SubcategoryLabel:
			res.Subcategory = strings.ToLower(res.Category)
		case rules.SubcategoryKeyword:
			if found {
				res.Subcategory = underscore(m.Keyword)
			}
		default:
			if found {
				res.Subcategory = m.Group
			}
		}
	}

	res.Rarity = item.White
	if m, ok := matchGroups(c.set.Rarity, lower); ok {
		res.Rarity = item.Rarity(m.Group)
	}
	res.GameStage = item.PreHardmode
	if m, ok := matchGroups(c.set.Stages, lower); ok {
		res.GameStage = item.GameStage(m.Group)
	}
	return res
}

func matchDomain(d rules.Domain, lower string) (Match, bool) {
	for _, b := range d.Branches {
		if m, ok := matchGroups(b.Groups, lower); ok {
			m.Domain = d.Type
			m.Branch = b.Name
			m.Label = b.Label
			return m, true
		}
	}
	return Match{}, false
}

func matchGroups(groups []rules.Group, lower string) (Match, bool) {
	for _, g := range groups {
		if k, ok := firstKeyword(lower, g.Keywords); ok {
			return Match{Group: g.Name, Keyword: k}, true
		}
	}
	return Match{}, false
}

func firstKeyword(lower string, keywords []string) (string, bool) {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return k, true
		}
	}
	return "", false
}

func underscore(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}
