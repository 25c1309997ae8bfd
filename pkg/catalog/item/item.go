// Package item defines the catalog record and the closed value sets it is
// built from.
package item

import (
	"regexp"
	"strings"
)

// Type is the primary kind of an item.
type Type string

const (
	Weapon     Type = "weapon"
	Armor      Type = "armor"
	Accessory  Type = "accessory"
	Vanity     Type = "vanity"
	Tool       Type = "tool"
	Material   Type = "material"
	Consumable Type = "consumable"
	Building   Type = "building"
	Furniture  Type = "furniture"
	Lighting   Type = "lighting"
	Storage    Type = "storage"
	Ammunition Type = "ammunition"
	Mechanism  Type = "mechanism"
	Novelty    Type = "novelty"
	Key        Type = "key"
	NPC        Type = "npc"
	Boss       Type = "boss"
)

var types = []Type{
	Weapon, Armor, Accessory, Vanity, Tool, Material, Consumable, Building,
	Furniture, Lighting, Storage, Ammunition, Mechanism, Novelty, Key, NPC, Boss,
}

// Types returns the closed set of item types in declaration order.
func Types() []Type { return append([]Type(nil), types...) }

// Valid reports whether t is a member of the closed type set.
func (t Type) Valid() bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

// Rarity is the item tier, lowest first.
type Rarity string

const (
	White   Rarity = "white"
	Blue    Rarity = "blue"
	Green   Rarity = "green"
	Orange  Rarity = "orange"
	Red     Rarity = "red"
	Purple  Rarity = "purple"
	Rainbow Rarity = "rainbow"
)

var rarities = []Rarity{White, Blue, Green, Orange, Red, Purple, Rainbow}

// Rarities returns the rarity tiers from lowest to highest.
func Rarities() []Rarity { return append([]Rarity(nil), rarities...) }

// Rank is the position of r in the tier order, or -1 when r is unknown.
func (r Rarity) Rank() int {
	for i, v := range rarities {
		if v == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is a known tier.
func (r Rarity) Valid() bool { return r.Rank() >= 0 }

// GameStage is the progression phase an item belongs to.
type GameStage string

const (
	PreHardmode  GameStage = "pre-hardmode"
	Hardmode     GameStage = "hardmode"
	PostPlantera GameStage = "post-plantera"
	PostGolem    GameStage = "post-golem"
)

var stages = []GameStage{PreHardmode, Hardmode, PostPlantera, PostGolem}

// GameStages returns the stages in progression order.
func GameStages() []GameStage { return append([]GameStage(nil), stages...) }

// Rank is the position of g in progression order, or -1 when g is unknown.
func (g GameStage) Rank() int {
	for i, v := range stages {
		if v == g {
			return i
		}
	}
	return -1
}

// Valid reports whether g is a known stage.
func (g GameStage) Valid() bool { return g.Rank() >= 0 }

// Acquisition is a way of obtaining an item.
type Acquisition string

const (
	Craft Acquisition = "craft"
	Drop  Acquisition = "drop"
	Buy   Acquisition = "buy"
	Find  Acquisition = "find"
)

var acquisitions = []Acquisition{Craft, Drop, Buy, Find}

// Acquisitions returns the known acquisition tags.
func Acquisitions() []Acquisition { return append([]Acquisition(nil), acquisitions...) }

// Valid reports whether a is a known acquisition tag.
func (a Acquisition) Valid() bool {
	for _, v := range acquisitions {
		if v == a {
			return true
		}
	}
	return false
}

// CollectionType partitions items into things a player collects and
// things that are only catalogued.
type CollectionType string

const (
	Collectible CollectionType = "collectible"
	Reference   CollectionType = "reference"
)

// CollectionTypeOf returns the partition for t. Unknown types are reference.
func CollectionTypeOf(t Type) CollectionType {
	switch t {
	case Weapon, Armor, Accessory, Vanity:
		return Collectible
	default:
		return Reference
	}
}

// Item is a fully classified catalog record.
type Item struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           Type           `json:"type"`
	Category       string         `json:"category"`
	Subcategory    string         `json:"subcategory"`
	SubSubcategory string         `json:"subSubcategory"`
	Rarity         Rarity         `json:"rarity"`
	GameStage      GameStage      `json:"gameStage"`
	Acquisition    []Acquisition  `json:"acquisition"`
	CollectionType CollectionType `json:"collectionType"`
	IconPath       string         `json:"iconPath"`
	Owned          bool           `json:"owned"`
}

// Clone returns a copy that shares no slices with it.
func (it Item) Clone() Item {
	if it.Acquisition != nil {
		it.Acquisition = append([]Acquisition(nil), it.Acquisition...)
	}
	return it
}

var iconFolders = map[Type]string{
	Weapon:     "weapons",
	Armor:      "armor",
	Accessory:  "accessories",
	Vanity:     "vanity",
	Tool:       "tools",
	Material:   "materials",
	Consumable: "consumables",
	Building:   "building",
	Furniture:  "furniture",
	Lighting:   "lighting",
	Storage:    "storage",
	Ammunition: "ammunition",
	Mechanism:  "mechanisms",
	Novelty:    "novelty",
	Key:        "keys",
	NPC:        "npcs",
	Boss:       "bosses",
}

// DefaultIconFolder is used for types without a dedicated folder.
const DefaultIconFolder = "accessories"

// IconFolder returns the asset folder for t.
func IconFolder(t Type) string {
	if f, ok := iconFolders[t]; ok {
		return f
	}
	return DefaultIconFolder
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug lowercases id and collapses whitespace runs into dashes.
func Slug(id string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(id)), "-")
}

// IconPath returns the asset path for an item of type t with the given id.
func IconPath(t Type, id string) string {
	return "/assets/icons/" + IconFolder(t) + "/" + Slug(id) + ".png"
}
