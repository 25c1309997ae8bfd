package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/rules"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/validate"
)

// LoadRules loads a classification rule set from a YAML file
func LoadRules(path string) (rules.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rules.Set{}, err
	}
	return rules.Decode(data)
}

// LoadPolicy loads a validation policy from a YAML file
func LoadPolicy(path string) (validate.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return validate.Policy{}, err
	}

	var p validate.Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return validate.Policy{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return p, nil
}
