package chart

import (
	"math"
	"strconv"
)

// Op is one primitive draw instruction. Hosts execute ops in sequence
// against their concrete surface; the vocabulary maps one-to-one onto the
// 2D canvas model (rect fills and strokes, paths, text, transform stack).
type Op interface {
	// Kind returns the wire name of the instruction, used by plan
	// serializers and by hosts dispatching on op type.
	Kind() string
}

// ClearRect erases a rectangle back to the surface background.
type ClearRect struct {
	Rect Rect `json:"rect"`
}

// FillRect fills a rectangle with the current fill color.
type FillRect struct {
	Rect Rect `json:"rect"`
}

// StrokeRect outlines a rectangle with the current stroke color and width.
type StrokeRect struct {
	Rect Rect `json:"rect"`
}

// StrokePath strokes a polyline through Points; Closed joins the last point
// back to the first.
type StrokePath struct {
	Points []Point `json:"points"`
	Closed bool    `json:"closed,omitempty"`
}

// SetFillColor sets the fill color for subsequent fill and text ops.
type SetFillColor struct {
	Color RGB `json:"color"`
}

// SetStrokeColor sets the stroke color for subsequent stroke ops.
type SetStrokeColor struct {
	Color RGB `json:"color"`
}

// SetLineWidth sets the stroke width for subsequent stroke ops.
type SetLineWidth struct {
	Width float64 `json:"width"`
}

// SetFont sets the font for subsequent FillText ops.
type SetFont struct {
	Font FontSpec `json:"font"`
}

// FillText draws text anchored at At with the given horizontal alignment.
// The y coordinate is the text baseline.
type FillText struct {
	Text  string `json:"text"`
	At    Point  `json:"at"`
	Align Align  `json:"align"`
}

// Save pushes the current transform and style state.
type Save struct{}

// Restore pops the transform and style state pushed by the matching Save.
type Restore struct{}

// Translate moves the coordinate origin by (Dx, Dy).
type Translate struct {
	Dx float64 `json:"dx"`
	Dy float64 `json:"dy"`
}

// Rotate rotates the coordinate system clockwise by Angle radians.
type Rotate struct {
	Angle float64 `json:"angle"`
}

func (ClearRect) Kind() string      { return "clearRect" }
func (FillRect) Kind() string       { return "fillRect" }
func (StrokeRect) Kind() string     { return "strokeRect" }
func (StrokePath) Kind() string     { return "strokePath" }
func (SetFillColor) Kind() string   { return "setFillColor" }
func (SetStrokeColor) Kind() string { return "setStrokeColor" }
func (SetLineWidth) Kind() string   { return "setLineWidth" }
func (SetFont) Kind() string        { return "setFont" }
func (FillText) Kind() string       { return "fillText" }
func (Save) Kind() string           { return "save" }
func (Restore) Kind() string        { return "restore" }
func (Translate) Kind() string      { return "translate" }
func (Rotate) Kind() string         { return "rotate" }

// Plan is the complete ordered instruction sequence for one chart render,
// together with the surface it was computed for. Executing the ops in order
// on a surface of that size reproduces the chart on any backend.
type Plan struct {
	Surface Rect `json:"surface"`
	Ops     []Op `json:"ops"`
}

func (p *Plan) add(ops ...Op) { p.Ops = append(p.Ops, ops...) }

// BuildPlan composes the computed layout and the dataset captions into the
// final instruction sequence. Emission order: background, tick gridlines
// and markers, bars with their labels, axis lines, title, rotated y
// caption, x caption, surface border. Nothing is emitted out of this order,
// so later elements paint over earlier ones.
func BuildPlan(l Layout, title, xLabel, yLabel string) *Plan {
	p := &Plan{Surface: l.Surface}

	p.add(
		ClearRect{Rect: l.Surface},
		SetFillColor{Color: White},
		FillRect{Rect: l.Surface},
	)

	emitTicks(p, l)
	emitBars(p, l)
	emitAxes(p, l)
	emitCaptions(p, l, title, xLabel, yLabel)

	p.add(
		SetStrokeColor{Color: Black},
		SetLineWidth{Width: BorderWidth},
		StrokeRect{Rect: l.Regions.Display},
	)
	return p
}

// emitTicks draws a gridline across the plot for every non-zero tick and a
// right-aligned marker label beside each tick including zero. The zero
// gridline is omitted because the axis baseline covers it.
func emitTicks(p *Plan, l Layout) {
	p.add(
		SetStrokeColor{Color: GridGray},
		SetLineWidth{Width: 1},
	)
	for _, t := range l.Ticks {
		if t.Value == 0 {
			continue
		}
		p.add(StrokePath{Points: []Point{
			{X: l.AxisX, Y: t.Y},
			{X: l.AxisRight, Y: t.Y},
		}})
	}

	p.add(
		SetFillColor{Color: Black},
		SetFont{Font: FontSpec{Size: l.LabelFont}},
	)
	for _, t := range l.Ticks {
		p.add(FillText{
			Text:  t.Label,
			At:    Point{X: l.AxisX - l.TextGap, Y: t.Y + l.LabelFont/3},
			Align: AlignRight,
		})
	}
}

func emitBars(p *Plan, l Layout) {
	if len(l.Bars) == 0 {
		return
	}

	p.add(
		SetStrokeColor{Color: Black},
		SetLineWidth{Width: 1},
		SetFont{Font: FontSpec{Size: l.LabelFont}},
	)
	for _, b := range l.Bars {
		p.add(
			SetFillColor{Color: b.Fill},
			FillRect{Rect: b.Rect},
			StrokeRect{Rect: b.Rect},
			SetFillColor{Color: Black},
			FillText{Text: b.Category, At: b.LabelAnchor, Align: AlignCenter},
			FillText{Text: strconv.FormatUint(uint64(b.Total), 10), At: b.CountAnchor, Align: AlignCenter},
		)
	}
}

// emitAxes strokes the axis L: baseline from the plot's right edge to the
// axis corner, then up to the plot's top edge.
func emitAxes(p *Plan, l Layout) {
	p.add(
		SetStrokeColor{Color: Black},
		SetLineWidth{Width: l.AxisThickness},
		StrokePath{Points: []Point{
			{X: l.AxisRight, Y: l.Baseline},
			{X: l.AxisX, Y: l.Baseline},
			{X: l.AxisX, Y: l.Regions.Plot.Y},
		}},
	)
}

// emitCaptions draws the chart title across the top region, the y caption
// rotated a quarter turn counter-clockwise in the left region, and the x
// caption in the bottom region. Empty strings emit nothing.
func emitCaptions(p *Plan, l Layout, title, xLabel, yLabel string) {
	p.add(SetFillColor{Color: Black})

	if title != "" {
		top := l.Regions.Top
		p.add(
			SetFont{Font: FontSpec{Size: l.TitleFont, Style: FontBold}},
			FillText{
				Text:  title,
				At:    Point{X: top.X + top.W/2, Y: top.Y + top.H/2 + l.TitleFont/3},
				Align: AlignCenter,
			},
		)
	}

	if yLabel != "" {
		left := l.Regions.Left
		p.add(
			Save{},
			Translate{Dx: left.X + left.W/2, Dy: left.Y + left.H/2},
			Rotate{Angle: 3 * math.Pi / 2},
			SetFont{Font: FontSpec{Size: l.LabelFont}},
			FillText{Text: yLabel, At: Point{X: 0, Y: l.LabelFont / 3}, Align: AlignCenter},
			Restore{},
		)
	}

	if xLabel != "" {
		bottom := l.Regions.Bottom
		p.add(
			SetFont{Font: FontSpec{Size: l.LabelFont}},
			FillText{
				Text:  xLabel,
				At:    Point{X: bottom.X + bottom.W/2, Y: bottom.Y + bottom.H/2 + l.LabelFont/3},
				Align: AlignCenter,
			},
		)
	}
}
