package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plotforge/barchart/pkg/cache"
	"github.com/plotforge/barchart/pkg/chart"
	"github.com/plotforge/barchart/pkg/dataset"
	"github.com/plotforge/barchart/pkg/errors"
	"github.com/plotforge/barchart/pkg/observability"
	"github.com/plotforge/barchart/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and service can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options, though renders against one shared drawing
// surface must still be serialized by the caller.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete aggregate → plan → render pipeline with caching.
//
// A failure at any stage aborts the run with no partial artifacts: the
// returned Result is nil unless every requested format rendered.
func (r *Runner) Execute(ctx context.Context, ds *dataset.Dataset, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Aggregate + order
	aggStart := time.Now()
	observability.Pipeline().OnAggregateStart(ctx, len(ds.Rows))
	entries, err := r.Aggregate(ctx, ds, opts)
	observability.Pipeline().OnAggregateComplete(ctx, len(entries), time.Since(aggStart), err)
	if err != nil {
		return nil, err
	}
	result.Entries = entries
	result.Stats.AggregateTime = time.Since(aggStart)
	result.Stats.RowCount = len(ds.Rows)
	result.Stats.CategoryCount = len(entries)

	opts.Logger.Info("aggregated rows",
		"rows", len(ds.Rows),
		"categories", len(entries),
		"duration", result.Stats.AggregateTime)

	// Stage 2: Plan
	planStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(entries), opts.Width, opts.Height)
	plan, planHit, err := r.PlanWithCacheInfo(ctx, ds, entries, opts)
	var opCount int
	if plan != nil {
		opCount = len(plan.Ops)
	}
	observability.Pipeline().OnLayoutComplete(ctx, opCount, time.Since(planStart), err)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	result.Stats.PlanTime = time.Since(planStart)
	result.CacheInfo.PlanHit = planHit

	planData, err := render.RenderJSON(plan)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize plan")
	}
	result.PlanHash = cache.Hash(planData)

	opts.Logger.Info("computed draw plan",
		"ops", len(plan.Ops),
		"cached", planHit,
		"duration", result.Stats.PlanTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, plan, planData, result.PlanHash, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Aggregate reduces the dataset into ordered per-category totals.
func (r *Runner) Aggregate(ctx context.Context, ds *dataset.Dataset, opts Options) ([]chart.Entry, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	totals, _, err := chart.Aggregate(ds.Rows, opts.Columns)
	if err != nil {
		return nil, err
	}
	return chart.Order(totals, opts.sortKey, opts.sortDir), nil
}

// PlanWithCacheInfo computes the draw plan with caching and returns cache
// hit info. The cache key covers the dataset content, the resolved
// captions, and every option that shapes the plan.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, ds *dataset.Dataset, entries []chart.Entry, opts Options) (*chart.Plan, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	title, xLabel, yLabel := resolveCaptions(ds, opts)
	cacheKey := r.Keyer.PlanKey(datasetHash(ds, title, xLabel, yLabel), cache.PlanKeyOpts{
		Width:     opts.Width,
		Height:    opts.Height,
		Seed:      opts.Seed,
		SortKey:   opts.sortKey.String(),
		SortDir:   opts.sortDir.String(),
		CatColumn: opts.Columns.Category,
		CntColumn: opts.Columns.Count,
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if plan, err := render.ParsePlan(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				return plan, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	plan, err := r.buildPlan(ds, entries, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if !opts.Refresh {
		if data, err := render.RenderJSON(plan); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.PlanTTL)
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}

	return plan, false, nil
}

// buildPlan runs the pure layout stages: partition, scale, layout, plan.
func (r *Runner) buildPlan(ds *dataset.Dataset, entries []chart.Entry, opts Options) (*chart.Plan, error) {
	regions, err := chart.Partition(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	var maxTotal uint32
	for _, e := range entries {
		if e.Total > maxTotal {
			maxTotal = e.Total
		}
	}
	scale := chart.ScaleFor(maxTotal)

	measurer := opts.Measurer
	if measurer == nil {
		m, err := render.NewMeasurer()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load fonts")
		}
		measurer = m
	}

	surface := chart.Rect{W: opts.Width, H: opts.Height}
	layout := chart.BuildLayout(surface, regions, entries, scale, opts.Seed, measurer)

	title, xLabel, yLabel := resolveCaptions(ds, opts)
	return chart.BuildPlan(layout, title, xLabel, yLabel), nil
}

// RenderWithCacheInfo renders artifacts with caching and returns cache hit
// info. planData is the serialized plan, reused as the JSON artifact so the
// interchange format and the cache representation never diverge.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, plan *chart.Plan, planData []byte, planHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte, len(opts.Formats))

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(planHash, cache.ArtifactKeyOpts{Format: format, PNGScale: opts.PNGScale})
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = render.RenderSVG(plan)
		case FormatPNG:
			data, err = render.RenderPNG(plan, render.WithScale(opts.PNGScale))
		case FormatJSON:
			data = planData
		}
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		rendered[format] = data
	}

	// Cache each format
	if !opts.Refresh {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(planHash, cache.ArtifactKeyOpts{Format: format, PNGScale: opts.PNGScale})
			_ = r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL)
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// resolveCaptions applies option overrides over the dataset's own captions.
func resolveCaptions(ds *dataset.Dataset, opts Options) (title, xLabel, yLabel string) {
	title, xLabel, yLabel = ds.Title, ds.XLabel, ds.YLabel
	if opts.Title != "" {
		title = opts.Title
	}
	if opts.XLabel != "" {
		xLabel = opts.XLabel
	}
	if opts.YLabel != "" {
		yLabel = opts.YLabel
	}
	return title, xLabel, yLabel
}

// datasetHash hashes the dataset content together with the resolved
// captions, which also end up in the plan.
func datasetHash(ds *dataset.Dataset, title, xLabel, yLabel string) string {
	data, _ := json.Marshal(struct {
		Rows   []dataset.Row `json:"rows"`
		Title  string        `json:"title"`
		XLabel string        `json:"x_label"`
		YLabel string        `json:"y_label"`
	}{ds.Rows, title, xLabel, yLabel})
	return cache.Hash(data)
}
