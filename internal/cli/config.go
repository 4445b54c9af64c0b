package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/plotforge/barchart/pkg/dataset"
	"github.com/plotforge/barchart/pkg/pipeline"
)

// chartConfig is the TOML chart configuration accepted via --config.
// Flags given on the command line override values from the file.
//
// Example:
//
//	title  = "Commits per author"
//	x_label = "Author"
//	y_label = "Commits"
//	sort   = "total"
//	direction = "desc"
//	seed   = 0.25
//
//	[columns]
//	category = 0
//	count    = 1
type chartConfig struct {
	Columns   dataset.Columns `toml:"columns"`
	Sort      string          `toml:"sort"`
	Direction string          `toml:"direction"`
	Title     string          `toml:"title"`
	XLabel    string          `toml:"x_label"`
	YLabel    string          `toml:"y_label"`
	Width     float64         `toml:"width"`
	Height    float64         `toml:"height"`
	Seed      float64         `toml:"seed"`
	Formats   []string        `toml:"formats"`

	// meta records which keys the file actually set, so apply only
	// touches those and layers over earlier sources instead of wiping
	// them.
	meta toml.MetaData
}

// loadChartConfig reads a TOML chart configuration file.
func loadChartConfig(path string) (*chartConfig, error) {
	var cfg chartConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0])
	}
	cfg.meta = meta
	return &cfg, nil
}

// apply copies the keys present in the file onto pipeline options; keys the
// file does not mention keep their current values.
func (c *chartConfig) apply(opts *pipeline.Options) {
	set := func(key string, assign func()) {
		if c.meta.IsDefined(key) {
			assign()
		}
	}
	if c.meta.IsDefined("columns", "category") {
		opts.Columns.Category = c.Columns.Category
	}
	if c.meta.IsDefined("columns", "count") {
		opts.Columns.Count = c.Columns.Count
	}
	set("sort", func() { opts.Sort = c.Sort })
	set("direction", func() { opts.Direction = c.Direction })
	set("title", func() { opts.Title = c.Title })
	set("x_label", func() { opts.XLabel = c.XLabel })
	set("y_label", func() { opts.YLabel = c.YLabel })
	set("width", func() { opts.Width = c.Width })
	set("height", func() { opts.Height = c.Height })
	set("seed", func() { opts.Seed = c.Seed })
	set("formats", func() { opts.Formats = c.Formats })
}
