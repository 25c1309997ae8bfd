package validate

import "github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"

// Override pins a set of item names to a type.
type Override struct {
	Type  item.Type `yaml:"type"`
	Names []string  `yaml:"names"`
}

// Categories lists the category labels accepted for a type.
type Categories struct {
	Type   item.Type `yaml:"type"`
	Labels []string  `yaml:"labels"`
}

// Policy is the ground-truth data the validator checks against.
type Policy struct {
	Overrides        []Override   `yaml:"overrides"`
	BossCategory     string       `yaml:"boss_category"`
	BossRoster       []string     `yaml:"boss_roster"`
	BossExclusions   []string     `yaml:"boss_exclusions"` // regular expressions
	WeaponCategory   string       `yaml:"weapon_category"`
	WeaponExclusions []string     `yaml:"weapon_exclusions"`
	Categories       []Categories `yaml:"categories"`
}

// DefaultPolicy returns a fresh copy of the built-in policy.
func DefaultPolicy() Policy {
	return Policy{
		Overrides: []Override{
			{Type: item.Consumable, Names: []string{
				"Life Crystal", "Mana Crystal", "Life Fruit",
				"Lesser Healing Potion", "Lesser Mana Potion",
				"Healing Potion", "Mana Potion",
				"Greater Healing Potion", "Greater Mana Potion",
				"Super Healing Potion", "Super Mana Potion",
			}},
			{Type: item.Accessory, Names: []string{
				"Hermes Boots", "Terraspark Boots", "Cloud in a Bottle",
				"Band of Regeneration", "Magic Mirror", "Angel Wings", "Demon Wings",
			}},
		},
		BossCategory: "Bosses",
		BossRoster: []string{
			"King Slime", "Eye of Cthulhu", "Eater of Worlds", "Brain of Cthulhu",
			"Queen Bee", "Deerclops", "Skeletron", "Wall of Flesh",
			"Queen Slime", "The Twins", "The Destroyer", "Skeletron Prime",
			"Plantera", "Golem", "Duke Fishron", "Empress of Light",
			"Lunatic Cultist", "Moon Lord",
		},
		BossExclusions: []string{
			`(?i)Trophy$`, `(?i)Banner$`, `(?i)Hand$`, `(?i)Fist$`,
			`(?i)Eye of the`, `(?i)Have Awoken`, `(?i)Emblem$`, `(?i)Mask$`,
			`(?i)\s+Dye$`,
		},
		WeaponCategory: "Weapons",
		WeaponExclusions: []string{
			"Life Crystal", "Mana Crystal", "Life Fruit", "Pickaxe", "Hammer", "Axe",
		},
		Categories: []Categories{
			{Type: item.Weapon, Labels: []string{"Melee", "Ranged", "Magic", "Summoner", "Weapons"}},
			{Type: item.Armor, Labels: []string{"Head", "Chest", "Legs", "Armor"}},
			{Type: item.Accessory, Labels: []string{"Movement", "Combat", "Utility", "Accessories"}},
			{Type: item.Tool, Labels: []string{"Tools"}},
			{Type: item.NPC, Labels: []string{"Merchants", "Craftsmen", "NPCs"}},
			{Type: item.Boss, Labels: []string{"Pre-Hardmode", "Hardmode", "Event", "Bosses"}},
			{Type: item.Vanity, Labels: []string{"Vanity", "Other"}},
			{Type: item.Material, Labels: []string{"Materials", "Other"}},
			{Type: item.Consumable, Labels: []string{"Consumables", "Other"}},
			{Type: item.Building, Labels: []string{"Building", "Other"}},
			{Type: item.Furniture, Labels: []string{"Furniture", "Other"}},
			{Type: item.Lighting, Labels: []string{"Lighting", "Other"}},
			{Type: item.Storage, Labels: []string{"Storage", "Other"}},
			{Type: item.Ammunition, Labels: []string{"Ammunition", "Other"}},
			{Type: item.Mechanism, Labels: []string{"Mechanisms", "Other"}},
			{Type: item.Novelty, Labels: []string{"Novelty", "Other"}},
			{Type: item.Key, Labels: []string{"Keys", "Other"}},
		},
	}
}
