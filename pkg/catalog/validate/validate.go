// Package validate checks classified items for consistency and scores a
// batch.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

// Rule names attached to findings.
const (
	RuleRequired        = "required"
	RuleEnum            = "enum"
	RuleAcquisition     = "acquisition"
	RuleCategory        = "category"
	RuleOverride        = "override"
	RuleBoss            = "boss"
	RuleWeaponExclusion = "weapon-exclusion"
	RuleIconPath        = "icon-path"
	RuleDuplicateID     = "duplicate-id"
	RuleDuplicateName   = "duplicate-name"
)

// Finding is a single problem attributed to one item.
type Finding struct {
	Index    int      `json:"index"`
	ItemID   string   `json:"itemId"`
	ItemName string   `json:"itemName"`
	Field    string   `json:"field"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Label identifies the item in text output.
func (f Finding) Label() string {
	if f.ItemID != "" {
		return f.ItemID
	}
	return fmt.Sprintf("#%d", f.Index)
}

// Validator checks items against a compiled Policy. It is safe for
// concurrent use.
type Validator struct {
	overrides      map[string]item.Type
	roster         map[string]struct{}
	exclusions     []*regexp.Regexp
	bossCategory   string
	weaponCategory string
	weaponExcluded []string
	categories     map[item.Type]map[string]struct{}
}

// New compiles p.
func New(p Policy) (*Validator, error) {
	v := &Validator{
		overrides:      make(map[string]item.Type),
		roster:         make(map[string]struct{}, len(p.BossRoster)),
		bossCategory:   p.BossCategory,
		weaponCategory: p.WeaponCategory,
		categories:     make(map[item.Type]map[string]struct{}, len(p.Categories)),
	}

	for _, o := range p.Overrides {
		if !o.Type.Valid() {
			return nil, fmt.Errorf("%w: override type %q", internalerr.ErrInvalidConfig, o.Type)
		}
		for _, name := range o.Names {
			name = strings.TrimSpace(name)
			if prev, ok := v.overrides[name]; ok && prev != o.Type {
				return nil, fmt.Errorf("%w: %q pinned to both %s and %s", internalerr.ErrInvalidConfig, name, prev, o.Type)
			}
			v.overrides[name] = o.Type
		}
	}
	for _, name := range p.BossRoster {
		v.roster[strings.TrimSpace(name)] = struct{}{}
	}
	for _, pattern := range p.BossExclusions {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: boss exclusion %q: %v", internalerr.ErrInvalidConfig, pattern, err)
		}
		v.exclusions = append(v.exclusions, re)
	}
	for _, w := range p.WeaponExclusions {
		v.weaponExcluded = append(v.weaponExcluded, strings.ToLower(w))
	}
	for _, c := range p.Categories {
		if !c.Type.Valid() {
			return nil, fmt.Errorf("%w: categories for type %q", internalerr.ErrInvalidConfig, c.Type)
		}
		set := v.categories[c.Type]
		if set == nil {
			set = make(map[string]struct{}, len(c.Labels))
			v.categories[c.Type] = set
		}
		for _, label := range c.Labels {
			set[label] = struct{}{}
		}
	}
	return v, nil
}

// Default returns a validator over DefaultPolicy.
func Default() *Validator {
	v, err := New(DefaultPolicy())
	if err != nil {
		panic("validate: built-in policy invalid: " + err.Error())
	}
	return v
}

// Validate checks every item and the batch as a whole. items is not modified.
func (v *Validator) Validate(items []item.Item) Report {
	var findings []Finding
	for i, it := range items {
		findings = append(findings, v.checkItem(i, it)...)
	}
	findings = append(findings, duplicateIDs(items)...)
	findings = append(findings, duplicateNames(items)...)
	return newReport(len(items), findings)
}

// ValidItems returns the items of the batch with no fatal findings.
func (v *Validator) ValidItems(items []item.Item) []item.Item {
	return v.Validate(items).ValidItems(items)
}

func (v *Validator) checkItem(i int, it item.Item) []Finding {
	var out []Finding
	add := func(field, rule string, sev Severity, format string, args ...any) {
		out = append(out, Finding{
			Index:    i,
			ItemID:   it.ID,
			ItemName: it.Name,
			Field:    field,
			Rule:     rule,
			Message:  fmt.Sprintf(format, args...),
			Severity: sev,
		})
	}

	required := []struct {
		field string
		value string
		sev   Severity
	}{
		{"id", it.ID, Fatal},
		{"name", it.Name, Fatal},
		{"type", string(it.Type), Fatal},
		{"category", it.Category, Fatal},
		{"iconPath", it.IconPath, Advisory},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			add(r.field, RuleRequired, r.sev, "required field is missing")
		}
	}

	if it.Type != "" && !it.Type.Valid() {
		add("type", RuleEnum, Fatal, "invalid item type: %s", it.Type)
	}
	if !it.Rarity.Valid() {
		add("rarity", RuleEnum, Fatal, "invalid rarity: %q", it.Rarity)
	}
	if !it.GameStage.Valid() {
		add("gameStage", RuleEnum, Fatal, "invalid game stage: %q", it.GameStage)
	}

	if len(it.Acquisition) == 0 {
		add("acquisition", RuleAcquisition, Advisory, "no acquisition method")
	}
	for _, a := range it.Acquisition {
		if !a.Valid() {
			add("acquisition", RuleAcquisition, Advisory, "unknown acquisition method: %s", a)
		}
	}

	if it.Category != "" && it.Type.Valid() {
		if allowed, ok := v.categories[it.Type]; ok {
			if _, ok := allowed[it.Category]; !ok {
				add("category", RuleCategory, Advisory, "category %q is not valid for type %s", it.Category, it.Type)
			}
		}
	}

	name := strings.TrimSpace(it.Name)
	if want, ok := v.overrides[name]; ok && it.Type != want {
		add("type", RuleOverride, Fatal, "%s must be type %s, not %s", name, want, it.Type)
	}

	if v.bossCategory != "" && it.Category == v.bossCategory {
		if _, official := v.roster[name]; !official {
			if re := v.excludedBoss(name); re != nil {
				add("category", RuleBoss, Fatal, "%s is not an official boss and matches exclusion pattern %s", name, re.String())
			} else {
				add("category", RuleBoss, Advisory, "%s is not in the official boss roster", name)
			}
		}
	}

	if v.weaponCategory != "" && it.Category == v.weaponCategory {
		lower := strings.ToLower(name)
		for _, w := range v.weaponExcluded {
			if strings.Contains(lower, w) {
				add("category", RuleWeaponExclusion, Fatal, "%s should not be categorized as a weapon", name)
				break
			}
		}
	}

	if it.IconPath != "" && it.Type.Valid() {
		folder := item.IconFolder(it.Type)
		if !strings.Contains(it.IconPath, "/"+folder+"/") {
			add("iconPath", RuleIconPath, Info, "icon path is outside folder %s", folder)
		}
	}

	return out
}

func (v *Validator) excludedBoss(name string) *regexp.Regexp {
	for _, re := range v.exclusions {
		if re.MatchString(name) {
			return re
		}
	}
	return nil
}

func duplicateIDs(items []item.Item) []Finding {
	groups, order := group(items, func(it item.Item) string { return strings.TrimSpace(it.ID) })
	var out []Finding
	for _, key := range order {
		idx := groups[key]
		if len(idx) < 2 {
			continue
		}
		for _, i := range idx {
			out = append(out, Finding{
				Index:    i,
				ItemID:   items[i].ID,
				ItemName: items[i].Name,
				Field:    "id",
				Rule:     RuleDuplicateID,
				Message:  fmt.Sprintf("duplicate id found: %s (%d occurrences)", key, len(idx)),
				Severity: Fatal,
			})
		}
	}
	return out
}

func duplicateNames(items []item.Item) []Finding {
	groups, order := group(items, func(it item.Item) string { return NormalizeName(it.Name) })
	var out []Finding
	for _, key := range order {
		idx := groups[key]
		if len(idx) < 2 {
			continue
		}
		for _, i := range idx {
			out = append(out, Finding{
				Index:    i,
				ItemID:   items[i].ID,
				ItemName: items[i].Name,
				Field:    "name",
				Rule:     RuleDuplicateName,
				Message:  fmt.Sprintf("duplicate name found: %s (%d occurrences)", strings.TrimSpace(items[i].Name), len(idx)),
				Severity: Advisory,
			})
		}
	}
	return out
}

// group buckets item indexes by key in first-seen order. Empty keys are
// skipped; they are already reported as missing fields.
func group(items []item.Item, key func(item.Item) string) (map[string][]int, []string) {
	groups := make(map[string][]int)
	var order []string
	for i, it := range items {
		k := key(it)
		if k == "" {
			continue
		}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	return groups, order
}

// NormalizeName is the comparison key for duplicate names.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
