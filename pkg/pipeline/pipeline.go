// Package pipeline provides the chart render pipeline.
//
// This package implements the complete aggregate → layout → render pipeline
// that can be used by CLI and service components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Aggregate: Reduce raw rows into ordered per-category totals
//  2. Plan: Compute the surface layout and the draw instruction sequence
//  3. Render: Execute the plan into output formats (SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Columns: dataset.Columns{Category: 0, Count: 1},
//	    Width:   800,
//	    Height:  600,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, ds, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plotforge/barchart/pkg/chart"
	"github.com/plotforge/barchart/pkg/dataset"
	"github.com/plotforge/barchart/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Service
// =============================================================================

const (
	// DefaultWidth is the default surface width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default surface height in pixels.
	DefaultHeight = 600.0

	// DefaultPNGScale is the default raster scale factor.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one chart render.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Aggregate options: which columns to read.
	Columns dataset.Columns `json:"columns"`

	// Layout options.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Seed   float64 `json:"seed,omitempty"`

	// Order options. Sort is "category" or "total"; Direction is "asc" or
	// "desc".
	Sort      string `json:"sort,omitempty"`
	Direction string `json:"direction,omitempty"`

	// Caption overrides. Empty values fall back to the dataset's own.
	Title  string `json:"title,omitempty"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`

	// Render options.
	Formats  []string `json:"formats,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`

	// Refresh bypasses cache lookups and recomputes everything.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized).
	Logger   *log.Logger        `json:"-"`
	Measurer chart.TextMeasurer `json:"-"`

	// Parsed sort settings, populated by ValidateAndSetDefaults.
	sortKey chart.SortKey
	sortDir chart.SortDirection

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Columns.Category < 0 || o.Columns.Count < 0 {
		return errors.New(errors.ErrCodeInvalidColumns,
			"column indices must be non-negative (category=%d, count=%d)",
			o.Columns.Category, o.Columns.Count)
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}

	key, err := chart.ParseSortKey(o.Sort)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSort, err, "sort")
	}
	o.sortKey = key

	dir, err := chart.ParseSortDirection(o.Direction)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSort, err, "direction")
	}
	o.sortDir = dir

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %q (must be one of: svg, png, json)", f)
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// SortKey returns the parsed sort key. Valid after ValidateAndSetDefaults.
func (o *Options) SortKey() chart.SortKey { return o.sortKey }

// SortDirection returns the parsed sort direction. Valid after
// ValidateAndSetDefaults.
func (o *Options) SortDirection() chart.SortDirection { return o.sortDir }

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Entries is the bar draw order with per-category totals.
	Entries []chart.Entry

	// Plan is the computed draw instruction sequence.
	Plan *chart.Plan

	// PlanHash is the content hash of the serialized plan.
	PlanHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount      int
	CategoryCount int
	AggregateTime time.Duration
	PlanTime      time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit   bool // Whether the plan came from cache
	RenderHit bool // Whether all artifacts came from cache
}
