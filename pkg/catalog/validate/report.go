package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
)

// Score penalties
const (
	fatalPenalty       = 5
	fatalPenaltyCap    = 50
	advisoryPenalty    = 2
	advisoryPenaltyCap = 20
)

// Summary counts a validation run.
type Summary struct {
	TotalItems    int `json:"totalItems"`
	ValidItems    int `json:"validItems"`
	FatalCount    int `json:"fatalCount"`
	AdvisoryCount int `json:"advisoryCount"`
	InfoCount     int `json:"infoCount"`
}

// Report is the outcome of validating one batch.
type Report struct {
	Fatal    []Finding `json:"fatal"`
	Advisory []Finding `json:"advisory"`
	Info     []Finding `json:"info"`
	Summary  Summary   `json:"summary"`
	// Invalid holds the sorted indexes of items with fatal findings.
	Invalid []int `json:"invalid"`
}

func newReport(total int, findings []Finding) Report {
	r := Report{
		Fatal:    []Finding{},
		Advisory: []Finding{},
		Info:     []Finding{},
		Invalid:  []int{},
	}
	invalid := make(map[int]struct{})
	for _, f := range findings {
		switch f.Severity {
		case Fatal:
			r.Fatal = append(r.Fatal, f)
			invalid[f.Index] = struct{}{}
		case Advisory:
			r.Advisory = append(r.Advisory, f)
		default:
			r.Info = append(r.Info, f)
		}
	}
	for i := range invalid {
		r.Invalid = append(r.Invalid, i)
	}
	sort.Ints(r.Invalid)

	r.Summary = Summary{
		TotalItems:    total,
		ValidItems:    total - len(r.Invalid),
		FatalCount:    len(r.Fatal),
		AdvisoryCount: len(r.Advisory),
		InfoCount:     len(r.Info),
	}
	return r
}

// IsValid reports whether the batch has no fatal findings.
func (r Report) IsValid() bool {
	return r.Summary.FatalCount == 0
}

// QualityScore rates the batch from 0 to 100.
func (r Report) QualityScore() int {
	s := r.Summary
	if s.TotalItems == 0 {
		return 0
	}
	base := 100 * float64(s.ValidItems) / float64(s.TotalItems)
	penalty := math.Min(float64(fatalPenalty*s.FatalCount), fatalPenaltyCap) +
		math.Min(float64(advisoryPenalty*s.AdvisoryCount), advisoryPenaltyCap)
	return int(math.Round(math.Max(0, base-penalty)))
}

// ValidItems filters items, which should be the slice that was validated,
// down to those without fatal findings. Advisory-only items are kept.
// Indexes are positional, so a shorter slice is filtered by prefix.
func (r Report) ValidItems(items []item.Item) []item.Item {
	invalid := make(map[int]struct{}, len(r.Invalid))
	for _, i := range r.Invalid {
		if i < len(items) {
			invalid[i] = struct{}{}
		}
	}
	out := make([]item.Item, 0, len(items)-len(invalid))
	for i, it := range items {
		if _, bad := invalid[i]; bad {
			continue
		}
		out = append(out, it)
	}
	return out
}

// FindingsFor returns every finding attributed to the item at index.
func (r Report) FindingsFor(index int) []Finding {
	var out []Finding
	for _, group := range [][]Finding{r.Fatal, r.Advisory, r.Info} {
		for _, f := range group {
			if f.Index == index {
				out = append(out, f)
			}
		}
	}
	return out
}

// Line renders a finding as "{itemId}: {field} - {message}".
func Line(f Finding) string {
	return fmt.Sprintf("%s: %s - %s", f.Label(), f.Field, f.Message)
}

// Text renders the plain-text report.
func (r Report) Text() string {
	var b strings.Builder
	s := r.Summary

	b.WriteString("Validation Report\n")
	b.WriteString("=================\n")
	fmt.Fprintf(&b, "Total items: %d\n", s.TotalItems)
	fmt.Fprintf(&b, "Valid items: %d\n", s.ValidItems)
	fmt.Fprintf(&b, "Errors: %d\n", s.FatalCount)
	fmt.Fprintf(&b, "Warnings: %d\n", s.AdvisoryCount)
	fmt.Fprintf(&b, "Info: %d\n", s.InfoCount)
	fmt.Fprintf(&b, "Quality score: %d/100\n", r.QualityScore())

	section := func(title string, findings []Finding) {
		if len(findings) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s (%d)\n", title, len(findings))
		for _, f := range findings {
			b.WriteString(Line(f))
			b.WriteByte('\n')
		}
	}
	section("ERRORS", r.Fatal)
	section("WARNINGS", r.Advisory)
	section("INFO", r.Info)
	return b.String()
}
