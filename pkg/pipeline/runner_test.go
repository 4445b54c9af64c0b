package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/plotforge/barchart/pkg/cache"
	"github.com/plotforge/barchart/pkg/chart"
	"github.com/plotforge/barchart/pkg/dataset"
	"github.com/plotforge/barchart/pkg/errors"
)

var testMeasure = chart.MeasureFunc(func(text string, f chart.FontSpec) float64 {
	return float64(len(text)) * f.Size * 0.6
})

func testDataset() *dataset.Dataset {
	row := func(category, count string) dataset.Row {
		return dataset.Row{
			{Name: "category", Kind: dataset.KindText, Value: category},
			{Name: "count", Kind: dataset.KindInteger, Value: count},
		}
	}
	return &dataset.Dataset{
		Title:  "Inventory",
		XLabel: "Category",
		YLabel: "Items",
		Rows: []dataset.Row{
			row("fruit", "3"),
			row("veg", "10"),
			row("fruit", "2"),
		},
	}
}

func testOptions() Options {
	return Options{
		Columns:  dataset.Columns{Category: 0, Count: 1},
		Formats:  []string{FormatSVG, FormatJSON},
		Measurer: testMeasure,
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	result, err := runner.Execute(context.Background(), testDataset(), testOptions())
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if len(result.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(result.Entries))
	}
	var sum uint64
	for _, e := range result.Entries {
		sum += uint64(e.Total)
	}
	if sum != 15 {
		t.Errorf("entry totals sum to %d, want 15 (sum of input counts)", sum)
	}

	if result.Plan == nil || len(result.Plan.Ops) == 0 {
		t.Fatal("result has no plan ops")
	}
	if result.PlanHash == "" {
		t.Error("result has no plan hash")
	}

	svg, ok := result.Artifacts[FormatSVG]
	if !ok || !strings.HasPrefix(string(svg), "<svg") {
		t.Errorf("svg artifact missing or malformed: %.40q", svg)
	}
	jsonArtifact, ok := result.Artifacts[FormatJSON]
	if !ok || !strings.Contains(string(jsonArtifact), `"clearRect"`) {
		t.Errorf("json artifact missing or malformed: %.60q", jsonArtifact)
	}

	if result.Stats.RowCount != 3 || result.Stats.CategoryCount != 2 {
		t.Errorf("stats = %+v, want 3 rows and 2 categories", result.Stats)
	}
	if result.CacheInfo.PlanHit || result.CacheInfo.RenderHit {
		t.Errorf("cache info = %+v, want no hits with null cache", result.CacheInfo)
	}
}

func TestRunnerExecuteMalformedData(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ds := testDataset()
	ds.Rows[1][1].Value = "many"

	result, err := runner.Execute(context.Background(), ds, testOptions())
	if err == nil {
		t.Fatal("expected error for malformed row, got nil")
	}
	if !errors.Is(err, errors.ErrCodeMalformedRow) {
		t.Errorf("error code = %q, want MALFORMED_ROW", errors.GetCode(err))
	}
	if result != nil {
		t.Error("result is not nil on failure (no partial artifacts)")
	}
}

func TestRunnerExecuteEmptyDataset(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	ds := &dataset.Dataset{Title: "Empty"}

	result, err := runner.Execute(context.Background(), ds, testOptions())
	if err != nil {
		t.Fatalf("Execute returned error for empty dataset: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("got %d entries, want 0", len(result.Entries))
	}
	// Axes and border still render.
	if len(result.Plan.Ops) == 0 {
		t.Error("empty dataset produced an empty plan")
	}
}

func TestRunnerPlanCacheHit(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	first, err := runner.Execute(ctx, testDataset(), testOptions())
	if err != nil {
		t.Fatalf("first Execute returned error: %v", err)
	}
	if first.CacheInfo.PlanHit {
		t.Error("first run reported a plan cache hit")
	}

	second, err := runner.Execute(ctx, testDataset(), testOptions())
	if err != nil {
		t.Fatalf("second Execute returned error: %v", err)
	}
	if !second.CacheInfo.PlanHit {
		t.Error("second run did not hit the plan cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run did not hit the artifact cache")
	}
	if second.PlanHash != first.PlanHash {
		t.Errorf("plan hash changed between runs: %q vs %q", second.PlanHash, first.PlanHash)
	}
}

// Re-rendering at a different raster scale must not serve the old scale's
// bytes from the artifact cache.
func TestRunnerPNGScaleChangesArtifact(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	opts := testOptions()
	opts.Formats = []string{FormatPNG}
	opts.PNGScale = 1

	first, err := runner.Execute(ctx, testDataset(), opts)
	if err != nil {
		t.Fatalf("scale-1 Execute returned error: %v", err)
	}

	opts = testOptions()
	opts.Formats = []string{FormatPNG}
	opts.PNGScale = 4

	second, err := runner.Execute(ctx, testDataset(), opts)
	if err != nil {
		t.Fatalf("scale-4 Execute returned error: %v", err)
	}

	if second.CacheInfo.RenderHit {
		t.Error("scale-4 render hit the artifact cache populated at scale 1")
	}
	if bytes.Equal(first.Artifacts[FormatPNG], second.Artifacts[FormatPNG]) {
		t.Errorf("png at scale 1 and scale 4 are byte-identical (%d bytes)", len(first.Artifacts[FormatPNG]))
	}

	// Same scale again is a legitimate hit.
	third, err := runner.Execute(ctx, testDataset(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !third.CacheInfo.RenderHit {
		t.Error("repeat scale-4 render missed the artifact cache")
	}
}

func TestRunnerRefreshBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, testDataset(), testOptions()); err != nil {
		t.Fatal(err)
	}

	opts := testOptions()
	opts.Refresh = true
	result, err := runner.Execute(ctx, testDataset(), opts)
	if err != nil {
		t.Fatalf("refresh Execute returned error: %v", err)
	}
	if result.CacheInfo.PlanHit || result.CacheInfo.RenderHit {
		t.Errorf("refresh run hit the cache: %+v", result.CacheInfo)
	}
}

// Surface size changes geometry but never the bar order or totals.
func TestRunnerResizeKeepsEntries(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	ctx := context.Background()

	small := testOptions()
	small.Width, small.Height = 400, 300
	large := testOptions()
	large.Width, large.Height = 1600, 1200

	a, err := runner.Execute(ctx, testDataset(), small)
	if err != nil {
		t.Fatal(err)
	}
	b, err := runner.Execute(ctx, testDataset(), large)
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Entries) != len(b.Entries) {
		t.Fatalf("entry counts differ: %d vs %d", len(a.Entries), len(b.Entries))
	}
	for i := range a.Entries {
		if a.Entries[i] != b.Entries[i] {
			t.Errorf("entry %d differs across sizes: %+v vs %+v", i, a.Entries[i], b.Entries[i])
		}
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{
			name: "negative column",
			opts: Options{Columns: dataset.Columns{Category: -1, Count: 1}},
			code: errors.ErrCodeInvalidColumns,
		},
		{
			name: "bad sort key",
			opts: Options{Sort: "alphabetical"},
			code: errors.ErrCodeInvalidSort,
		},
		{
			name: "bad direction",
			opts: Options{Direction: "sideways"},
			code: errors.ErrCodeInvalidSort,
		},
		{
			name: "bad format",
			opts: Options{Formats: []string{"gif"}},
			code: errors.ErrCodeInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults returned error: %v", err)
	}

	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("surface defaults = %gx%g, want %gx%g", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale default = %g, want %g", opts.PNGScale, DefaultPNGScale)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats default = %v, want [svg]", opts.Formats)
	}
	if opts.SortKey() != chart.SortByCategory || opts.SortDirection() != chart.Ascending {
		t.Errorf("sort defaults = %v/%v, want category/asc", opts.SortKey(), opts.SortDirection())
	}
}
