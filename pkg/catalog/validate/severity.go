package validate

import (
	"fmt"
	"strings"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
)

// Severity is the tier of a finding.
type Severity string

const (
	// Fatal findings exclude the item from the valid set.
	Fatal Severity = "fatal"
	// Advisory findings are reported but keep the item valid.
	Advisory Severity = "advisory"
	// Info findings are notes with no effect on validity or score.
	Info Severity = "info"
)

// ParseSeverity maps both legacy vocabularies (error/warning/info and
// critical/high/medium/low) onto the three tiers.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fatal", "error", "critical", "high":
		return Fatal, nil
	case "advisory", "warning", "medium":
		return Advisory, nil
	case "info", "low":
		return Info, nil
	}
	return "", fmt.Errorf("%w: severity %q", internalerr.ErrInvalidInput, s)
}
