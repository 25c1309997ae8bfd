// Package catalog wires classification, validation and persistence into a
// build pipeline.
package catalog

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/analytics"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/classify"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/internalerr"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/item"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/query"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/report"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/validate"
)

// Catalog is the main pipeline facade
type Catalog struct {
	classifier *classify.Classifier
	validator  *validate.Validator
	store      store.Store
	runs       *report.Builder
	log        *zap.Logger
	workers    int
}

// Options configures a Catalog. Nil classifier and validator fall back to
// the built-in rules; a nil Store disables persistence.
type Options struct {
	Classifier *classify.Classifier
	Validator  *validate.Validator
	Store      store.Store
	Logger     *zap.Logger
	Workers    int
}

// New creates a Catalog with the given dependencies
func New(opts Options) *Catalog {
	c := &Catalog{
		classifier: opts.Classifier,
		validator:  opts.Validator,
		store:      opts.Store,
		runs:       report.New(),
		log:        opts.Logger,
		workers:    opts.Workers,
	}
	if c.classifier == nil {
		c.classifier = classify.Default()
	}
	if c.validator == nil {
		c.validator = validate.Default()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// Close releases the store, if any
func (c *Catalog) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Classifier returns the classifier in use
func (c *Catalog) Classifier() *classify.Classifier { return c.classifier }

// Validator returns the validator in use
func (c *Catalog) Validator() *validate.Validator { return c.validator }

// Store returns the backing store, or nil
func (c *Catalog) Store() store.Store { return c.store }

// BuildOptions controls one Build call
type BuildOptions struct {
	Source         string
	MaxItems       int
	SkipValidation bool
}

// BuildResult is the outcome of a Build
type BuildResult struct {
	// Items are the accepted records: all of them when the batch is valid
	// or validation was skipped, otherwise only those without fatal findings.
	Items      []item.Item
	Classified int
	Report     validate.Report
	Stats      analytics.Stats
	Run        report.Run
}

// Build classifies raws in parallel, validates the full batch, keeps the
// valid subset and persists it when a store is configured.
func (c *Catalog) Build(ctx context.Context, raws []item.RawItem, opts BuildOptions) (BuildResult, error) {
	if opts.MaxItems > 0 && len(raws) > opts.MaxItems {
		raws = raws[:opts.MaxItems]
	}

	items, err := c.ClassifyAll(ctx, raws)
	if err != nil {
		return BuildResult{}, err
	}
	c.log.Info("classified items", zap.Int("count", len(items)), zap.String("source", opts.Source))

	res := BuildResult{Items: items, Classified: len(items)}
	if !opts.SkipValidation {
		res.Report = c.validator.Validate(items)
		s := res.Report.Summary
		c.log.Info("validated items",
			zap.Int("valid", s.ValidItems),
			zap.Int("fatal", s.FatalCount),
			zap.Int("advisory", s.AdvisoryCount),
			zap.Int("quality_score", res.Report.QualityScore()),
		)
		if !res.Report.IsValid() {
			res.Items = res.Report.ValidItems(items)
			c.log.Warn("batch has fatal findings, keeping valid subset",
				zap.Int("kept", len(res.Items)),
				zap.Int("dropped", len(items)-len(res.Items)),
			)
		}
	} else {
		res.Report = validate.Report{
			Summary: validate.Summary{TotalItems: len(items), ValidItems: len(items)},
		}
	}

	res.Stats = analytics.Summarize(res.Items)
	res.Run = c.runs.Build(opts.Source, res.Report, res.Stats)

	if c.store != nil {
		stored := withIDs(res.Items)
		if n := len(res.Items) - len(stored); n > 0 {
			c.log.Warn("skipping items without id", zap.Int("count", n))
		}
		if err := c.store.UpsertItems(ctx, stored); err != nil {
			return BuildResult{}, fmt.Errorf("store items: %w", err)
		}
		if err := c.store.SaveRun(ctx, res.Run); err != nil {
			return BuildResult{}, fmt.Errorf("store run: %w", err)
		}
		c.log.Info("stored build", zap.String("run_id", res.Run.ID), zap.Int("items", len(stored)))
	}
	return res, nil
}

// ClassifyAll classifies raws concurrently. The output order matches raws.
func (c *Catalog) ClassifyAll(ctx context.Context, raws []item.RawItem) ([]item.Item, error) {
	items := make([]item.Item, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = c.classifier.Item(raws[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Validate runs the validator and records a run without storing items.
func (c *Catalog) Validate(ctx context.Context, source string, items []item.Item) (report.Run, error) {
	rep := c.validator.Validate(items)
	run := c.runs.Build(source, rep, analytics.Summarize(rep.ValidItems(items)))
	if c.store != nil {
		if err := c.store.SaveRun(ctx, run); err != nil {
			return report.Run{}, fmt.Errorf("store run: %w", err)
		}
	}
	return run, nil
}

// Items lists stored items matching f in the given order.
func (c *Catalog) Items(ctx context.Context, f query.Filter, o query.Order) ([]item.Item, error) {
	if c.store == nil {
		return nil, internalerr.ErrStoreUnavailable
	}
	items, err := c.store.ListItems(ctx, f)
	if err != nil {
		return nil, err
	}
	query.Sort(items, o)
	return items, nil
}

// Progress tallies ownership over every stored item.
func (c *Catalog) Progress(ctx context.Context) (analytics.Progress, error) {
	if c.store == nil {
		return analytics.Progress{}, internalerr.ErrStoreUnavailable
	}
	items, err := c.store.ListItems(ctx, query.Filter{})
	if err != nil {
		return analytics.Progress{}, err
	}
	return analytics.CalculateProgress(items), nil
}

// withIDs drops items the store cannot key. Validation already reports
// them as fatal, so this only matters when validation is skipped.
func withIDs(items []item.Item) []item.Item {
	out := make([]item.Item, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ID) != "" {
			out = append(out, it)
		}
	}
	return out
}
