package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

func TestLoaderAllEmpty(t *testing.T) {
	loader := Loader{}

	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}
	if comp.Classifier == nil {
		t.Error("Should have default classifier")
	}
	if comp.Validator == nil {
		t.Error("Should have default validator")
	}
	if got := comp.Classifier.Type("Molten Pickaxe"); got != item.Tool {
		t.Errorf("Default rules should classify pickaxes as tools, got %s", got)
	}
}

func TestLoaderNonExistentRules(t *testing.T) {
	loader := Loader{RulesPath: "/nonexistent/rules.yaml"}

	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent rules file")
	}
}

func TestLoaderNonExistentPolicy(t *testing.T) {
	loader := Loader{PolicyPath: "/nonexistent/policy.yaml"}

	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent policy file")
	}
}

func TestLoaderWithRealFiles(t *testing.T) {
	tmpDir := t.TempDir()

	rulesPath := filepath.Join(tmpDir, "rules.yaml")
	rulesContent := `default_type: material
domains:
  - type: weapon
    default: Melee
    subcategory: group
    branches:
      - name: melee
        label: Melee
        groups:
          - name: sword
            keywords: [Sword]
stages:
  - name: hardmode
    keywords: [hallowed]
`
	if err := os.WriteFile(rulesPath, []byte(rulesContent), 0644); err != nil {
		t.Fatal(err)
	}

	policyPath := filepath.Join(tmpDir, "policy.yaml")
	policyContent := `overrides:
  - type: consumable
    names: [Healing Potion]
boss_category: Bosses
boss_roster: [Moon Lord]
boss_exclusions: ['(?i)Trophy$']
categories:
  - type: weapon
    labels: [Melee]
`
	if err := os.WriteFile(policyPath, []byte(policyContent), 0644); err != nil {
		t.Fatal(err)
	}

	loader := Loader{RulesPath: rulesPath, PolicyPath: policyPath}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	res := comp.Classifier.Classify("Hallowed Sword")
	if res.Type != item.Weapon || res.GameStage != item.Hardmode {
		t.Errorf("Unexpected classification: %+v", res)
	}
	if got := comp.Classifier.Type("Gel"); got != item.Material {
		t.Errorf("Default type should come from file, got %s", got)
	}

	report := comp.Validator.Validate([]item.Item{{
		ID: "healing-potion", Name: "Healing Potion", Type: item.Weapon, Category: "Melee",
		Rarity: item.White, GameStage: item.PreHardmode,
		Acquisition: []item.Acquisition{item.Buy}, IconPath: "/assets/icons/weapons/healing-potion.png",
	}})
	if report.IsValid() {
		t.Error("Override from policy file should produce a fatal finding")
	}
}

func TestLoaderRejectsInvalidRules(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rules.yaml")
	content := `default_type: accessory
domains:
  - type: weapon
    default: Melee
    subcategory: group
    branches:
      - name: melee
        label: Melee
        groups:
          - name: sword
            keywords: []
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := (&Loader{RulesPath: path}).Load()
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadPolicyMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("overrides: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPolicy(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
}
