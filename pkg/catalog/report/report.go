// Package report assembles and renders catalog build runs.
package report

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/analytics"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/validate"
)

// Run is the record of one build or validation pass.
type Run struct {
	ID           string           `json:"id"`
	Source       string           `json:"source"`
	GeneratedAt  time.Time        `json:"generatedAt"`
	IsValid      bool             `json:"isValid"`
	QualityScore int              `json:"qualityScore"`
	Summary      validate.Summary `json:"summary"`
	Stats        analytics.Stats  `json:"stats"`
	Validation   validate.Report  `json:"validation"`
}

// Builder stamps runs with sortable ULIDs.
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a run builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Build creates a run from a validation report and the accepted items' stats.
func (b *Builder) Build(source string, rep validate.Report, stats analytics.Stats) Run {
	b.mu.Lock()
	now := b.now().UTC()
	id := ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	b.mu.Unlock()

	return Run{
		ID:           id,
		Source:       source,
		GeneratedAt:  now,
		IsValid:      rep.IsValid(),
		QualityScore: rep.QualityScore(),
		Summary:      rep.Summary,
		Stats:        stats,
		Validation:   rep,
	}
}
