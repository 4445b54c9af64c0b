package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plotforge/barchart/pkg/dataset"
	"github.com/plotforge/barchart/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path (or base path for multiple formats)
	configPath string // TOML chart config file
	viewName   string // saved view to load options from
	noCache    bool
	refresh    bool

	pipe pipeline.Options
}

// newRenderCmd creates the render command. The dataset argument is a
// record-set JSON file or an http(s) URL; options come from flags, an
// optional --config TOML file, or a saved --view, with flags winning.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Render a dataset as a bar chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigSources(cmd, &opts); err != nil {
				return err
			}
			if formatsStr != "" {
				opts.pipe.Formats = strings.Split(formatsStr, ",")
			}
			opts.pipe.Refresh = opts.refresh
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML chart config file")
	cmd.Flags().StringVar(&opts.viewName, "view", "", "saved view to render with")
	cmd.Flags().IntVar(&opts.pipe.Columns.Category, "category-col", 0, "column index of the category name")
	cmd.Flags().IntVar(&opts.pipe.Columns.Count, "count-col", 1, "column index of the item count")
	cmd.Flags().Float64Var(&opts.pipe.Width, "width", pipeline.DefaultWidth, "surface width")
	cmd.Flags().Float64Var(&opts.pipe.Height, "height", pipeline.DefaultHeight, "surface height")
	cmd.Flags().Float64Var(&opts.pipe.Seed, "seed", 0, "palette hue seed in [0,1)")
	cmd.Flags().StringVar(&opts.pipe.Sort, "sort", "", "sort key: category (default), total")
	cmd.Flags().StringVar(&opts.pipe.Direction, "direction", "", "sort direction: asc (default), desc")
	cmd.Flags().StringVar(&opts.pipe.Title, "title", "", "chart title (overrides dataset)")
	cmd.Flags().StringVar(&opts.pipe.XLabel, "x-label", "", "x axis caption")
	cmd.Flags().StringVar(&opts.pipe.YLabel, "y-label", "", "y axis caption")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the plan/artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache and recompute")

	return cmd
}

// applyConfigSources layers options: saved view, then config file, then any
// explicitly changed flags on top.
func applyConfigSources(cmd *cobra.Command, opts *renderOpts) error {
	flagged := opts.pipe

	if opts.viewName != "" {
		store, err := newViewStore()
		if err != nil {
			return err
		}
		v, err := store.Get(cmd.Context(), opts.viewName)
		if err != nil {
			return err
		}
		opts.pipe = v.Config
	}

	if opts.configPath != "" {
		cfg, err := loadChartConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg.apply(&opts.pipe)
	}

	// Explicit flags win over both sources.
	overrides := map[string]func(){
		"category-col": func() { opts.pipe.Columns.Category = flagged.Columns.Category },
		"count-col":    func() { opts.pipe.Columns.Count = flagged.Columns.Count },
		"width":        func() { opts.pipe.Width = flagged.Width },
		"height":       func() { opts.pipe.Height = flagged.Height },
		"seed":         func() { opts.pipe.Seed = flagged.Seed },
		"sort":         func() { opts.pipe.Sort = flagged.Sort },
		"direction":    func() { opts.pipe.Direction = flagged.Direction },
		"title":        func() { opts.pipe.Title = flagged.Title },
		"x-label":      func() { opts.pipe.XLabel = flagged.XLabel },
		"y-label":      func() { opts.pipe.YLabel = flagged.YLabel },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	return nil
}

// runRender loads the dataset, runs the pipeline, and writes artifacts.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	opts.pipe.Logger = logger

	ds, err := loadDataset(ctx, input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded dataset: %d rows", len(ds.Rows))

	runner := newRunner(ctx, opts.noCache)
	defer runner.Close()

	sp := newSpinner(ctx, "rendering chart")
	sp.Start()
	result, err := runner.Execute(ctx, ds, opts.pipe)
	if err != nil {
		sp.StopWithError(fmt.Sprintf("render failed: %v", err))
		return err
	}
	sp.StopWithSuccess(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))
	printStats(result.Stats.RowCount, result.Stats.CategoryCount, result.CacheInfo.PlanHit)

	return writeArtifacts(input, opts.output, result.Artifacts)
}

// loadDataset reads the dataset from a file or fetches it from a URL.
func loadDataset(ctx context.Context, input string) (*dataset.Dataset, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return dataset.Fetch(ctx, nil, input)
	}
	return dataset.ImportJSON(input)
}

// writeArtifacts writes each rendered format next to the input (or to the
// requested output path). A single format goes to the output path verbatim;
// multiple formats share its base name with per-format extensions.
func writeArtifacts(input, output string, artifacts map[string][]byte) error {
	base := basePath(output, input)

	for _, format := range []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatJSON} {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if output != "" && len(artifacts) == 1 {
			path = output
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output has a
// format extension, it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	switch strings.TrimPrefix(ext, ".") {
	case pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatJSON:
		return strings.TrimSuffix(output, ext)
	}
	return output
}
