package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

func newItem(id, name string, t item.Type, category string) item.Item {
	return item.Item{
		ID:             id,
		Name:           name,
		Type:           t,
		Category:       category,
		Subcategory:    "other",
		SubSubcategory: "other",
		Rarity:         item.White,
		GameStage:      item.PreHardmode,
		Acquisition:    []item.Acquisition{item.Find},
		CollectionType: item.CollectionTypeOf(t),
		IconPath:       item.IconPath(t, id),
	}
}

func fields(findings []Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Field + "/" + f.Rule
	}
	return out
}

func TestValidateCleanBatch(t *testing.T) {
	items := []item.Item{
		newItem("copper-shortsword", "Copper Shortsword", item.Weapon, "Melee"),
		newItem("guide", "Guide", item.NPC, "Merchants"),
	}
	r := Default().Validate(items)

	assert.True(t, r.IsValid())
	assert.Empty(t, r.Fatal)
	assert.Empty(t, r.Advisory)
	assert.Empty(t, r.Info)
	assert.Equal(t, 100, r.QualityScore())
	assert.Equal(t, Summary{TotalItems: 2, ValidItems: 2}, r.Summary)
}

func TestOverrideViolationIsFatal(t *testing.T) {
	items := []item.Item{
		newItem("life-crystal", "Life Crystal", item.Weapon, "Magic"),
		newItem("copper-shortsword", "Copper Shortsword", item.Weapon, "Melee"),
	}
	v := Default()
	r := v.Validate(items)

	require.Len(t, r.Fatal, 1)
	assert.Equal(t, RuleOverride, r.Fatal[0].Rule)
	assert.Equal(t, 0, r.Fatal[0].Index)
	assert.False(t, r.IsValid())

	valid := v.ValidItems(items)
	require.Len(t, valid, 1)
	assert.Equal(t, "copper-shortsword", valid[0].ID)
}

func TestOverrideSatisfied(t *testing.T) {
	items := []item.Item{newItem("hermes-boots", "Hermes Boots", item.Accessory, "Movement")}
	assert.True(t, Default().Validate(items).IsValid())
}

func TestDuplicateIDsAreFatalForEveryRecord(t *testing.T) {
	items := []item.Item{
		newItem("x", "First", item.Weapon, "Melee"),
		newItem("x", "Second", item.Weapon, "Melee"),
		newItem("y", "Third", item.Weapon, "Melee"),
	}
	v := Default()
	r := v.Validate(items)

	require.Len(t, r.Fatal, 2)
	assert.Equal(t, 0, r.Fatal[0].Index)
	assert.Equal(t, 1, r.Fatal[1].Index)
	assert.Equal(t, "duplicate id found: x (2 occurrences)", r.Fatal[0].Message)
	assert.Equal(t, []int{0, 1}, r.Invalid)
	assert.Equal(t, 1, r.Summary.ValidItems)

	valid := v.ValidItems(items)
	require.Len(t, valid, 1)
	assert.Equal(t, "y", valid[0].ID)
}

func TestDuplicateNamesAreAdvisory(t *testing.T) {
	items := []item.Item{
		newItem("a", "Copper Shortsword", item.Weapon, "Melee"),
		newItem("b", "  copper shortsword ", item.Weapon, "Melee"),
	}
	v := Default()
	r := v.Validate(items)

	assert.True(t, r.IsValid())
	require.Len(t, r.Advisory, 2)
	assert.Equal(t, RuleDuplicateName, r.Advisory[0].Rule)
	assert.Len(t, v.ValidItems(items), 2)
	assert.Equal(t, 96, r.QualityScore())
}

func TestEmptyBatch(t *testing.T) {
	r := Default().Validate(nil)
	assert.True(t, r.IsValid())
	assert.Equal(t, 0, r.QualityScore())
	assert.Empty(t, r.ValidItems(nil))
}

func TestValidItemsIdempotent(t *testing.T) {
	items := []item.Item{
		newItem("life-crystal", "Life Crystal", item.Weapon, "Magic"),
		newItem("x", "First", item.Weapon, "Melee"),
		newItem("x", "Second", item.Weapon, "Melee"),
		newItem("guide", "Guide", item.NPC, "Merchants"),
		newItem("dup-a", "Twin", item.Accessory, "Utility"),
		newItem("dup-b", "twin", item.Accessory, "Utility"),
		{ID: "broken"},
	}
	v := Default()
	once := v.ValidItems(items)
	twice := v.ValidItems(once)
	assert.Equal(t, once, twice)
	assert.Len(t, once, 3)
}

func TestValidItemsShorterSlice(t *testing.T) {
	items := []item.Item{{}, newItem("guide", "Guide", item.NPC, "Merchants"), {}}
	r := Default().Validate(items)
	require.Equal(t, []int{0, 2}, r.Invalid)

	assert.NotPanics(t, func() {
		assert.Empty(t, r.ValidItems(items[:1]))
		assert.Equal(t, items[1:2], r.ValidItems(items[:2]))
	})
}

func TestRequiredFields(t *testing.T) {
	items := []item.Item{{
		Rarity:      item.White,
		GameStage:   item.PreHardmode,
		Acquisition: []item.Acquisition{item.Find},
	}}
	r := Default().Validate(items)

	assert.Equal(t, []string{"id/required", "name/required", "type/required", "category/required"}, fields(r.Fatal))
	assert.Equal(t, []string{"iconPath/required"}, fields(r.Advisory))
	assert.Equal(t, "#0: id - required field is missing", Line(r.Fatal[0]))
}

func TestEnumMembership(t *testing.T) {
	it := newItem("odd", "Odd Thing", item.Weapon, "Melee")
	it.Type = "gadget"
	it.Rarity = "gold"
	it.GameStage = ""
	r := Default().Validate([]item.Item{it})

	assert.Equal(t, []string{"type/enum", "rarity/enum", "gameStage/enum"}, fields(r.Fatal))
	assert.Empty(t, r.Advisory)
	assert.Empty(t, r.Info)
}

func TestAcquisitionChecks(t *testing.T) {
	empty := newItem("a", "Alpha", item.Weapon, "Melee")
	empty.Acquisition = nil
	unknown := newItem("b", "Beta", item.Weapon, "Melee")
	unknown.Acquisition = []item.Acquisition{item.Craft, "steal"}

	r := Default().Validate([]item.Item{empty, unknown})
	require.Len(t, r.Advisory, 2)
	assert.Equal(t, "no acquisition method", r.Advisory[0].Message)
	assert.Equal(t, "unknown acquisition method: steal", r.Advisory[1].Message)
	assert.True(t, r.IsValid())
}

func TestCategoryConsistency(t *testing.T) {
	cases := []struct {
		it   item.Item
		want int
	}{
		{newItem("a", "Alpha", item.Weapon, "Chest"), 1},
		{newItem("b", "Beta", item.Weapon, "Weapons"), 0},
		{newItem("c", "Gamma", item.Armor, "Legs"), 0},
		{newItem("d", "Delta", item.Material, "Other"), 0},
		{newItem("e", "Epsilon", item.Tool, "Melee"), 1},
	}
	for _, tc := range cases {
		r := Default().Validate([]item.Item{tc.it})
		assert.Len(t, r.Advisory, tc.want, tc.it.Name)
		assert.True(t, r.IsValid())
	}
}

func TestBossCategory(t *testing.T) {
	items := []item.Item{
		newItem("moon-lord", "Moon Lord", item.Boss, "Bosses"),
		newItem("king-slime-trophy", "King Slime Trophy", item.Boss, "Bosses"),
		newItem("mystery-beast", "Mystery Beast", item.Boss, "Bosses"),
		newItem("red-dye", "Bright Red Dye", item.Boss, "Bosses"),
	}
	r := Default().Validate(items)

	require.Len(t, r.Fatal, 2)
	assert.Equal(t, 1, r.Fatal[0].Index)
	assert.Equal(t, RuleBoss, r.Fatal[0].Rule)
	assert.Equal(t, 3, r.Fatal[1].Index)
	require.Len(t, r.Advisory, 1)
	assert.Equal(t, "Mystery Beast is not in the official boss roster", r.Advisory[0].Message)
}

func TestWeaponExclusion(t *testing.T) {
	items := []item.Item{
		newItem("copper-pickaxe", "Copper Pickaxe", item.Weapon, "Weapons"),
		newItem("copper-pickaxe-2", "Copper Pickaxe Mk2", item.Weapon, "Melee"),
	}
	r := Default().Validate(items)

	require.Len(t, r.Fatal, 1)
	assert.Equal(t, RuleWeaponExclusion, r.Fatal[0].Rule)
	assert.Equal(t, 0, r.Fatal[0].Index)
}

func TestIconFolderMismatchIsInfo(t *testing.T) {
	it := newItem("sword", "Sword", item.Weapon, "Melee")
	it.IconPath = "/assets/icons/tools/sword.png"
	r := Default().Validate([]item.Item{it})

	require.Len(t, r.Info, 1)
	assert.True(t, r.IsValid())
	assert.Equal(t, 100, r.QualityScore())
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	items := []item.Item{
		newItem("x", "Life Crystal", item.Weapon, "Weapons"),
		newItem("x", "Life Crystal", item.Weapon, "Weapons"),
	}
	before := []item.Item{items[0].Clone(), items[1].Clone()}

	v := Default()
	first := v.Validate(items)
	second := v.Validate(items)

	assert.Equal(t, before, items)
	assert.Equal(t, first, second)
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name string
		s    Summary
		want int
	}{
		{"empty", Summary{}, 0},
		{"perfect", Summary{TotalItems: 4, ValidItems: 4}, 100},
		{"advisory cap", Summary{TotalItems: 10, ValidItems: 10, AdvisoryCount: 15}, 80},
		{"fatal cap clamps to zero", Summary{TotalItems: 10, ValidItems: 5, FatalCount: 20}, 0},
		{"rounded", Summary{TotalItems: 3, ValidItems: 2, FatalCount: 1, AdvisoryCount: 1}, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Report{Summary: tt.s}.QualityScore())
		})
	}
}

func TestText(t *testing.T) {
	items := []item.Item{
		newItem("x", "First", item.Weapon, "Melee"),
		newItem("x", "Second", item.Weapon, "Chest"),
	}
	text := Default().Validate(items).Text()

	assert.Contains(t, text, "Total items: 2\n")
	assert.Contains(t, text, "ERRORS (2)\n")
	assert.Contains(t, text, "x: id - duplicate id found: x (2 occurrences)\n")
	assert.Contains(t, text, "WARNINGS (1)\n")
	assert.Contains(t, text, `x: category - category "Chest" is not valid for type weapon`)
	assert.NotContains(t, text, "INFO")
}

func TestFindingsFor(t *testing.T) {
	items := []item.Item{
		newItem("life-crystal", "Life Crystal", item.Weapon, "Chest"),
		newItem("guide", "Guide", item.NPC, "Merchants"),
	}
	r := Default().Validate(items)
	assert.Len(t, r.FindingsFor(0), 2)
	assert.Empty(t, r.FindingsFor(1))
}

func TestParseSeverity(t *testing.T) {
	tests := map[string]Severity{
		"error":    Fatal,
		"critical": Fatal,
		"High":     Fatal,
		"warning":  Advisory,
		"medium":   Advisory,
		"info":     Info,
		"low":      Info,
	}
	for in, want := range tests {
		got, err := ParseSeverity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSeverity("catastrophic")
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestNewRejectsBadPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.BossExclusions = append(p.BossExclusions, "(")
	_, err := New(p)
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)

	p = DefaultPolicy()
	p.Overrides = append(p.Overrides, Override{Type: item.Weapon, Names: []string{"Life Crystal"}})
	_, err = New(p)
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}
