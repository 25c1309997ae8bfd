package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/analytics"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/validate"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
)

// Renderer writes runs as text. Styled output is meant for terminals;
// files get the plain form.
type Renderer struct {
	Styled bool
}

func (r Renderer) style(s lipgloss.Style, text string) string {
	if !r.Styled {
		return text
	}
	return s.Render(text)
}

// Render formats run. Finding lines use "{itemId}: {field} - {message}".
func (r Renderer) Render(run Run) string {
	var b strings.Builder
	s := run.Summary

	b.WriteString(r.style(titleStyle, "Validation Report"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Run: %s\n", run.ID)
	if run.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", run.Source)
	}
	fmt.Fprintf(&b, "Generated: %s\n\n", run.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(&b, "Total items: %d\n", s.TotalItems)
	fmt.Fprintf(&b, "Valid items: %d\n", s.ValidItems)
	fmt.Fprintf(&b, "Errors: %d\n", s.FatalCount)
	fmt.Fprintf(&b, "Warnings: %d\n", s.AdvisoryCount)
	fmt.Fprintf(&b, "Info: %d\n", s.InfoCount)

	status := r.style(okStyle, "VALID")
	if !run.IsValid {
		status = r.style(errorStyle, "INVALID")
	}
	fmt.Fprintf(&b, "Quality score: %d/100 (%s)\n", run.QualityScore, status)

	if len(run.Stats.ByType) > 0 {
		b.WriteString("\n")
		b.WriteString(r.style(headingStyle, "ITEMS BY TYPE"))
		b.WriteString("\n")
		for _, c := range analytics.Ranked(run.Stats.ByType) {
			fmt.Fprintf(&b, "  %-12s %d\n", c.Key, c.Count)
		}
	}

	r.section(&b, "ERRORS", errorStyle, run.Validation.Fatal)
	r.section(&b, "WARNINGS", warnStyle, run.Validation.Advisory)
	r.section(&b, "INFO", headingStyle, run.Validation.Info)
	return b.String()
}

func (r Renderer) section(b *strings.Builder, title string, st lipgloss.Style, findings []validate.Finding) {
	if len(findings) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(r.style(st.Bold(true), fmt.Sprintf("%s (%d)", title, len(findings))))
	b.WriteString("\n")
	for _, f := range findings {
		b.WriteString(validate.Line(f))
		b.WriteString("\n")
	}
}
