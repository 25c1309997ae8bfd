// Package rules holds the keyword tables that drive classification.
//
// Every table is an ordered sequence: the first group whose keyword occurs
// in a name wins, so declaration order is part of the configuration.
package rules

import (
	"fmt"
	"strings"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

// Subcategory modes
const (
	SubcategoryGroup   = "group"   // name of the matched group
	SubcategoryKeyword = "keyword" // first matching keyword, spaces as underscores
	SubcategoryLabel   = "label"   // lowercased category label
)

// Other is the sentinel for subcategories nothing matched.
const Other = "other"

// OtherCategory labels types that have no domain.
const OtherCategory = "Other"

// Group is a named keyword list.
type Group struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Branch is a category-level grouping inside a domain.
type Branch struct {
	Name   string  `yaml:"name"`
	Label  string  `yaml:"label"`
	Groups []Group `yaml:"groups"`
}

// Domain holds the rules for one item type.
type Domain struct {
	Type        item.Type `yaml:"type"`
	Default     string    `yaml:"default"`
	Subcategory string    `yaml:"subcategory"`
	// Passive domains take no part in type detection.
	Passive  bool     `yaml:"passive,omitempty"`
	Branches []Branch `yaml:"branches"`
}

// Set is a complete rule configuration.
type Set struct {
	DefaultType item.Type `yaml:"default_type"`
	Domains     []Domain  `yaml:"domains"`
	Rarity      []Group   `yaml:"rarity"`
	Stages      []Group   `yaml:"stages"`
	Acquisition []Group   `yaml:"acquisition"`
}

// Domain returns the domain for t.
func (s Set) Domain(t item.Type) (Domain, bool) {
	for _, d := range s.Domains {
		if d.Type == t {
			return d, true
		}
	}
	return Domain{}, false
}

// Clone returns a deep copy of s.
func (s Set) Clone() Set {
	out := Set{
		DefaultType: s.DefaultType,
		Domains:     make([]Domain, len(s.Domains)),
		Rarity:      cloneGroups(s.Rarity),
		Stages:      cloneGroups(s.Stages),
		Acquisition: cloneGroups(s.Acquisition),
	}
	for i, d := range s.Domains {
		nd := d
		nd.Branches = make([]Branch, len(d.Branches))
		for j, b := range d.Branches {
			nb := b
			nb.Groups = cloneGroups(b.Groups)
			nd.Branches[j] = nb
		}
		out.Domains[i] = nd
	}
	return out
}

// Normalized returns a deep copy with every keyword lowercased and trimmed.
func (s Set) Normalized() Set {
	out := s.Clone()
	for i := range out.Domains {
		for j := range out.Domains[i].Branches {
			normalizeGroups(out.Domains[i].Branches[j].Groups)
		}
	}
	normalizeGroups(out.Rarity)
	normalizeGroups(out.Stages)
	normalizeGroups(out.Acquisition)
	return out
}

// Validate checks structural integrity of the tables.
func (s Set) Validate() error {
	if len(s.Domains) == 0 {
		return fmt.Errorf("%w: no domains", internalerr.ErrInvalidConfig)
	}
	if !s.DefaultType.Valid() {
		return fmt.Errorf("%w: default type %q", internalerr.ErrInvalidConfig, s.DefaultType)
	}

	seen := make(map[item.Type]struct{})
	for _, d := range s.Domains {
		if !d.Type.Valid() {
			return fmt.Errorf("%w: domain type %q", internalerr.ErrInvalidConfig, d.Type)
		}
		if _, dup := seen[d.Type]; dup {
			return fmt.Errorf("%w: domain %s: %w", internalerr.ErrInvalidConfig, d.Type, internalerr.ErrDuplicate)
		}
		seen[d.Type] = struct{}{}

		switch d.Subcategory {
		case SubcategoryGroup, SubcategoryKeyword, SubcategoryLabel:
		default:
			return fmt.Errorf("%w: domain %s: subcategory mode %q", internalerr.ErrInvalidConfig, d.Type, d.Subcategory)
		}
		if strings.TrimSpace(d.Default) == "" {
			return fmt.Errorf("%w: domain %s: empty default label", internalerr.ErrInvalidConfig, d.Type)
		}
		if len(d.Branches) == 0 {
			return fmt.Errorf("%w: domain %s: no branches", internalerr.ErrInvalidConfig, d.Type)
		}
		for _, b := range d.Branches {
			if strings.TrimSpace(b.Label) == "" {
				return fmt.Errorf("%w: domain %s branch %q: empty label", internalerr.ErrInvalidConfig, d.Type, b.Name)
			}
			if err := validateGroups(string(d.Type)+"/"+b.Name, b.Groups); err != nil {
				return err
			}
		}
	}

	if err := validateGroups("rarity", s.Rarity); err != nil {
		return err
	}
	for _, g := range s.Rarity {
		if !item.Rarity(g.Name).Valid() {
			return fmt.Errorf("%w: rarity %q", internalerr.ErrInvalidConfig, g.Name)
		}
	}
	if err := validateGroups("stages", s.Stages); err != nil {
		return err
	}
	for _, g := range s.Stages {
		if !item.GameStage(g.Name).Valid() {
			return fmt.Errorf("%w: game stage %q", internalerr.ErrInvalidConfig, g.Name)
		}
	}
	for _, g := range s.Acquisition {
		if !item.Acquisition(g.Name).Valid() {
			return fmt.Errorf("%w: acquisition %q", internalerr.ErrInvalidConfig, g.Name)
		}
	}
	return validateGroups("acquisition", s.Acquisition)
}

func validateGroups(where string, groups []Group) error {
	for _, g := range groups {
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("%w: %s: unnamed group", internalerr.ErrInvalidConfig, where)
		}
		if len(g.Keywords) == 0 {
			return fmt.Errorf("%w: %s/%s: empty keyword list", internalerr.ErrInvalidConfig, where, g.Name)
		}
		for _, kw := range g.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("%w: %s/%s: blank keyword", internalerr.ErrInvalidConfig, where, g.Name)
			}
		}
	}
	return nil
}

func cloneGroups(groups []Group) []Group {
	if groups == nil {
		return nil
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Name: g.Name, Keywords: append([]string(nil), g.Keywords...)}
	}
	return out
}

func normalizeGroups(groups []Group) {
	for i := range groups {
		for j, kw := range groups[i].Keywords {
			groups[i].Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
}
