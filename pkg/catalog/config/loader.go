package config

import (
	"fmt"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/classify"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/rules"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/validate"
)

// Loader loads rule files and constructs components. Empty paths fall back
// to the built-in tables.
type Loader struct {
	RulesPath  string
	PolicyPath string
}

// Components holds the constructed classification components
type Components struct {
	Rules      rules.Set
	Classifier *classify.Classifier
	Validator  *validate.Validator
}

// Load reads the configured files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	set := rules.Default()
	if l.RulesPath != "" {
		loaded, err := LoadRules(l.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		set = loaded
	}
	c, err := classify.New(set)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}
	comp.Rules = set
	comp.Classifier = c

	policy := validate.DefaultPolicy()
	if l.PolicyPath != "" {
		loaded, err := LoadPolicy(l.PolicyPath)
		if err != nil {
			return nil, fmt.Errorf("load policy: %w", err)
		}
		policy = loaded
	}
	v, err := validate.New(policy)
	if err != nil {
		return nil, fmt.Errorf("build validator: %w", err)
	}
	comp.Validator = v

	return comp, nil
}
