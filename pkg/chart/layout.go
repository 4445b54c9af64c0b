package chart

import (
	"math"
	"strconv"
)

// Fractions of areaRoot (the geometric mean of the surface dimensions) used
// for font sizes and spacing. Deriving every size from a single
// resolution-independent factor keeps the chart proportions stable across
// surface sizes instead of relying on fixed pixel constants.
const (
	titleFontFraction = 0.025
	labelFontFraction = 0.015
	axisThicknessFrac = 0.004
	textGapFraction   = 0.006
	barFillFraction   = 0.6 // fill share of a bar slot; the rest is gap
)

// Tick is one labeled gridline on the vertical axis.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Y     float64 `json:"y"`
}

// BarGeometry is the complete geometry of one bar, produced in draw order.
type BarGeometry struct {
	Category    string `json:"category"`
	Total       uint32 `json:"total"`
	Rect        Rect   `json:"rect"`
	LabelAnchor Point  `json:"label_anchor"`
	CountAnchor Point  `json:"count_anchor"`
	Fill        RGB    `json:"fill"`
}

// Layout is the fully computed chart geometry: per-bar rectangles and
// anchors, tick positions, and the measurements the draw plan needs to
// place axes and captions.
type Layout struct {
	Surface Rect    `json:"surface"`
	Regions Regions `json:"regions"`
	Scale   Scale   `json:"scale"`

	// Sizes derived from areaRoot.
	TitleFont     float64 `json:"title_font"`
	LabelFont     float64 `json:"label_font"`
	AxisThickness float64 `json:"axis_thickness"`
	TextGap       float64 `json:"text_gap"`

	// Axis geometry. Baseline is the y of the x axis; AxisX the x of the
	// y axis; Unit the pixel height of one count unit.
	Baseline  float64 `json:"baseline"`
	AxisX     float64 `json:"axis_x"`
	AxisRight float64 `json:"axis_right"`
	Unit      float64 `json:"unit"`

	Ticks []Tick        `json:"ticks"`
	Bars  []BarGeometry `json:"bars"`
}

// BuildLayout computes bar rectangles, label anchors, and tick positions
// for the ordered entries within the plot region.
//
// The bar order of the result is exactly the order of entries: the orderer
// decides the left-to-right sequence and the layout never reorders it, so
// bars stay in place when the surface is resized.
//
// Geometry rules:
//   - one vertical unit = plot height / scale max, shared by bars and
//     ticks so a bar of value v tops out exactly at the v gridline;
//   - the widest rendered tick label (via measurer) sets the left inset so
//     labels never overlap the axis;
//   - each bar fills 60% of its horizontal slot, the remaining 40% splits
//     evenly around it, giving a half-gap before the first bar.
//
// Zero entries yield an empty bar slice; the axis and ticks are still
// computed so the host can draw an empty plot.
func BuildLayout(surface Rect, regions Regions, entries []Entry, scale Scale, seed float64, measurer TextMeasurer) Layout {
	areaRoot := math.Sqrt(surface.W * surface.H)
	plot := regions.Plot

	l := Layout{
		Surface:       surface,
		Regions:       regions,
		Scale:         scale,
		TitleFont:     titleFontFraction * areaRoot,
		LabelFont:     labelFontFraction * areaRoot,
		AxisThickness: axisThicknessFrac * areaRoot,
		TextGap:       textGapFraction * areaRoot,
	}

	markerFont := FontSpec{Size: l.LabelFont}
	l.Ticks, l.AxisX = buildTicks(plot, scale, markerFont, l.TextGap, measurer)

	l.Baseline = plot.Bottom()
	l.AxisRight = plot.Right()
	l.Unit = plot.H / scale.Max

	barAreaLeft := l.AxisX + l.AxisThickness + l.TextGap
	usableW := plot.Right() - barAreaLeft
	if len(entries) == 0 || usableW <= 0 {
		return l
	}

	colors := NextColors(seed, len(entries))
	slot := usableW / float64(len(entries))
	barW := slot * barFillFraction
	sideGap := slot * (1 - barFillFraction) / 2

	l.Bars = make([]BarGeometry, len(entries))
	for i, e := range entries {
		barH := float64(e.Total) * l.Unit
		x := barAreaLeft + float64(i)*slot + sideGap
		centerX := x + barW/2

		l.Bars[i] = BarGeometry{
			Category: e.Category,
			Total:    e.Total,
			Rect:     Rect{X: x, Y: l.Baseline - barH, W: barW, H: barH},
			LabelAnchor: Point{
				X: centerX,
				Y: l.Baseline + l.AxisThickness + l.TextGap + l.LabelFont,
			},
			CountAnchor: Point{
				X: centerX,
				Y: l.Baseline - barH - l.TextGap,
			},
			Fill: colors[i],
		}
	}
	return l
}

// buildTicks computes the tick set for the axis scale and the x position of
// the y axis. Ticks run from 0 to the scale maximum at every step; the
// widest rendered label determines how far the axis is inset from the plot
// edge.
func buildTicks(plot Rect, scale Scale, font FontSpec, textGap float64, measurer TextMeasurer) ([]Tick, float64) {
	baseline := plot.Bottom()
	unit := plot.H / scale.Max

	var ticks []Tick
	var widest float64
	for v := 0.0; v <= scale.Max; v += scale.Step {
		label := strconv.FormatFloat(v, 'f', -1, 64)
		if w := measurer.Measure(label, font); w > widest {
			widest = w
		}
		ticks = append(ticks, Tick{
			Value: v,
			Label: label,
			Y:     baseline - v*unit,
		})
	}

	return ticks, plot.X + widest + textGap
}
