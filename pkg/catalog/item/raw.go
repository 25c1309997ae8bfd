package item

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RawItem is an unclassified source record.
type RawItem struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Recipes []string `json:"recipes,omitempty"`
}

// HasRecipe reports whether any crafting recipe is recorded.
func (r RawItem) HasRecipe() bool {
	for _, rec := range r.Recipes {
		if strings.TrimSpace(rec) != "" {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts both the flat scraper layout (recipe1, recipe2, ...)
// and a "recipes" array. Numeric ids are converted to strings.
func (r *RawItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	out := RawItem{}
	if v, ok := fields["id"]; ok {
		id, err := scalarString(v)
		if err != nil {
			return fmt.Errorf("id: %w", err)
		}
		out.ID = id
	}
	if v, ok := fields["name"]; ok {
		name, err := scalarString(v)
		if err != nil {
			return fmt.Errorf("name: %w", err)
		}
		out.Name = name
	}

	type numbered struct {
		n    int
		text string
	}
	var flat []numbered
	for key, v := range fields {
		if !strings.HasPrefix(key, "recipe") || key == "recipes" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(key, "recipe"))
		if err != nil {
			continue
		}
		text, err := scalarString(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		flat = append(flat, numbered{n: n, text: text})
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].n < flat[j].n })
	for _, f := range flat {
		out.Recipes = append(out.Recipes, f.text)
	}

	if v, ok := fields["recipes"]; ok {
		var list []string
		if err := json.Unmarshal(v, &list); err != nil {
			return fmt.Errorf("recipes: %w", err)
		}
		for _, rec := range list {
			if strings.TrimSpace(rec) != "" {
				out.Recipes = append(out.Recipes, rec)
			}
		}
	}

	*r = out
	return nil
}

func scalarString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	return n.String(), nil
}
