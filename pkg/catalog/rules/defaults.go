package rules

import "github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"

func kw(words ...string) []string { return words }

// Default returns a fresh copy of the built-in rule tables.
func Default() Set {
	return Set{
		DefaultType: item.Accessory,
		Domains: []Domain{
			{
				Type:        item.Tool,
				Default:     "Tools",
				Subcategory: SubcategoryGroup,
				Branches: []Branch{
					{Name: "tools", Label: "Tools", Groups: []Group{
						{Name: "mining", Keywords: kw("pickaxe", "drill", "chainsaw")},
						{Name: "hammering", Keywords: kw("hamaxe", "hammer")},
						{Name: "fishing", Keywords: kw("fishing pole", "fishing rod", "bug net")},
						{Name: "grappling", Keywords: kw("grappling hook", "hook")},
						{Name: "utility", Keywords: kw("bucket", "wrench", "wire cutter", "staff of regrowth")},
					}},
				},
			},
			{
				Type:        item.Weapon,
				Default:     "Melee",
				Subcategory: SubcategoryGroup,
				Branches: []Branch{
					{Name: "melee", Label: "Melee", Groups: []Group{
						{Name: "sword", Keywords: kw("sword", "blade", "saber", "katana", "claymore", "cutlass", "scimitar")},
						{Name: "spear", Keywords: kw("spear", "lance", "trident", "halberd", "partisan")},
						{Name: "flail", Keywords: kw("flail", "chain", "morning star")},
						{Name: "yoyo", Keywords: kw("yoyo")},
						{Name: "boomerang", Keywords: kw("boomerang", "chakram", "bananarang")},
						{Name: "other", Keywords: kw("pickaxe", "axe", "hammer", "drill")},
					}},
					{Name: "ranged", Label: "Ranged", Groups: []Group{
						{Name: "bow", Keywords: kw("bow", "crossbow")},
						{Name: "gun", Keywords: kw("gun", "rifle", "pistol", "revolver", "shotgun", "musket", "sniper")},
						{Name: "launcher", Keywords: kw("launcher", "rocket", "grenade")},
						{Name: "thrown", Keywords: kw("throwing", "dart", "knife", "star", "javelin")},
					}},
					{Name: "magic", Label: "Magic", Groups: []Group{
						{Name: "staff", Keywords: kw("staff", "wand")},
						{Name: "tome", Keywords: kw("tome", "book", "spell")},
						{Name: "crystal", Keywords: kw("crystal", "gem", "orb")},
					}},
					{Name: "summoner", Label: "Summoner", Groups: []Group{
						{Name: "whip", Keywords: kw("whip", "lash")},
						{Name: "staff", Keywords: kw("summoning staff", "minion staff")},
						{Name: "other", Keywords: kw("summoner")},
					}},
				},
			},
			{
				Type:        item.Armor,
				Default:     "Head",
				Subcategory: SubcategoryGroup,
				Branches: []Branch{
					{Name: "head", Label: "Head", Groups: []Group{
						{Name: "head", Keywords: kw("helmet", "hat", "cap", "mask", "hood", "crown", "headpiece", "visor")},
					}},
					{Name: "body", Label: "Chest", Groups: []Group{
						{Name: "body", Keywords: kw("breastplate", "chestplate", "shirt", "robe", "tunic", "vest", "mail", "plate")},
					}},
					{Name: "legs", Label: "Legs", Groups: []Group{
						{Name: "legs", Keywords: kw("greaves", "leggings", "pants", "boots", "shoes", "sandals", "treads")},
					}},
				},
			},
			{
				Type:        item.NPC,
				Default:     "Merchants",
				Subcategory: SubcategoryLabel,
				Branches: []Branch{
					{Name: "town", Label: "Merchants", Groups: []Group{
						{Name: "town", Keywords: kw("guide", "merchant", "nurse", "demolitionist", "dye trader", "angler", "zoologist", "golfer", "princess", "santa claus")},
					}},
					{Name: "special", Label: "Craftsmen", Groups: []Group{
						{Name: "special", Keywords: kw("traveling merchant", "skeleton merchant", "old man")},
					}},
				},
			},
			{
				Type:        item.Boss,
				Default:     "Pre-Hardmode",
				Subcategory: SubcategoryLabel,
				Branches: []Branch{
					{Name: "pre_hardmode", Label: "Pre-Hardmode", Groups: []Group{
						{Name: "pre_hardmode", Keywords: kw("eye of cthulhu", "brain of cthulhu", "eater of worlds", "queen bee", "skeletron", "wall of flesh")},
					}},
					{Name: "hardmode", Label: "Hardmode", Groups: []Group{
						{Name: "hardmode", Keywords: kw("destroyer", "twins", "skeletron prime", "plantera", "golem", "duke fishron", "empress of light")},
					}},
					{Name: "post_golem", Label: "Event", Groups: []Group{
						{Name: "post_golem", Keywords: kw("lunatic cultist", "moon lord")},
					}},
				},
			},
			{
				Type:        item.Accessory,
				Default:     "Utility",
				Subcategory: SubcategoryKeyword,
				Passive:     true,
				Branches: []Branch{
					{Name: "movement", Label: "Movement", Groups: []Group{
						{Name: "movement", Keywords: kw("wings", "rocket boots", "cloud", "balloon", "horseshoe", "flying carpet")},
					}},
					{Name: "defense", Label: "Combat", Groups: []Group{
						{Name: "defense", Keywords: kw("shield", "shackle", "cross", "star", "charm")},
					}},
					{Name: "utility", Label: "Utility", Groups: []Group{
						{Name: "utility", Keywords: kw("ring", "band", "necklace", "amulet", "emblem", "insignia", "medal")},
					}},
					{Name: "combat", Label: "Combat", Groups: []Group{
						{Name: "combat", Keywords: kw("glove", "scope", "quiver", "pouch", "belt")},
					}},
				},
			},
		},
		Rarity: []Group{
			{Name: string(item.Rainbow), Keywords: kw("rainbow", "legendary", "mythical", "unreal", "godly")},
			{Name: string(item.Purple), Keywords: kw("master mode", "expert mode", "legendary", "mythical")},
			{Name: string(item.Red), Keywords: kw("hardmode", "post-plantera", "endgame", "boss drop")},
			{Name: string(item.Orange), Keywords: kw("rare", "special", "unique", "post-golem")},
			{Name: string(item.Green), Keywords: kw("uncommon", "magic", "enhanced", "improved")},
			{Name: string(item.Blue), Keywords: kw("magic", "enchanted", "superior", "fine")},
			{Name: string(item.White), Keywords: kw("common", "basic", "normal", "standard")},
		},
		Stages: []Group{
			{Name: string(item.PostGolem), Keywords: kw("post-golem", "lunar", "moon lord", "endgame", "celestial")},
			{Name: string(item.PostPlantera), Keywords: kw("post-plantera", "temple", "golem", "duke fishron", "empress")},
			{Name: string(item.Hardmode), Keywords: kw("hardmode", "mechanical", "destroyer", "twins", "prime", "plantera")},
			{Name: string(item.PreHardmode), Keywords: kw("pre-hardmode", "eye of cthulhu", "brain", "eater", "queen bee", "skeletron")},
		},
		Acquisition: []Group{
			{Name: string(item.Drop), Keywords: kw("drop", "boss")},
			{Name: string(item.Buy), Keywords: kw("buy", "shop")},
			{Name: string(item.Find), Keywords: kw("find", "chest")},
		},
	}
}
