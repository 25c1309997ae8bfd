package classify

import "strings"

// Explanation shows which rules produced a Result. A nil match means the
// field fell through to its default.
type Explanation struct {
	Name     string `json:"name"`
	Result   Result `json:"result"`
	Type     *Match `json:"typeMatch,omitempty"`
	Category *Match `json:"categoryMatch,omitempty"`
	Rarity   *Match `json:"rarityMatch,omitempty"`
	Stage    *Match `json:"stageMatch,omitempty"`
}

// Explain classifies name and reports the deciding rules.
func (c *Classifier) Explain(name string) Explanation {
	lower := strings.ToLower(name)
	t, tm := c.detectType(lower)
	ex := Explanation{
		Name:   name,
		Result: c.derive(lower, t),
		Type:   tm,
	}
	if d, ok := c.set.Domain(t); ok {
		if m, found := matchDomain(d, lower); found {
			ex.Category = &m
		}
	}
	if m, ok := matchGroups(c.set.Rarity, lower); ok {
		ex.Rarity = &m
	}
	if m, ok := matchGroups(c.set.Stages, lower); ok {
		ex.Stage = &m
	}
	return ex
}

// Defaulted lists the fields of ex that no rule decided.
func (ex Explanation) Defaulted() []string {
	var out []string
	if ex.Type == nil {
		out = append(out, "type")
	}
	if ex.Category == nil {
		out = append(out, "category")
	}
	if ex.Rarity == nil {
		out = append(out, "rarity")
	}
	if ex.Stage == nil {
		out = append(out, "gameStage")
	}
	return out
}

