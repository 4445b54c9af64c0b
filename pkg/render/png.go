package render

import (
	"bytes"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"

	"github.com/plotforge/barchart/pkg/chart"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// RenderPNG executes the plan against a raster context and encodes the
// result as PNG. The logical plan coordinates are multiplied by the scale
// factor, so a 2x render of a 800x600 plan produces a 1600x1200 image with
// identical geometry.
func RenderPNG(p *chart.Plan, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}

	fs, err := loadFonts()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(int(p.Surface.W*r.scale), int(p.Surface.H*r.scale))
	dc.Scale(r.scale, r.scale)

	ex := executor{dc: dc, fonts: fs, strokeWidth: 1}
	for _, op := range p.Ops {
		ex.apply(op)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// executor walks the op sequence mutating one raster context. The context
// holds a single current color, so fill and stroke colors are tracked here
// and set just before each paint op.
type executor struct {
	dc    *gg.Context
	fonts fontSet

	fill        chart.RGB
	stroke      chart.RGB
	strokeWidth float64
	font        chart.FontSpec
}

func (e *executor) apply(op chart.Op) {
	switch o := op.(type) {
	case chart.ClearRect:
		e.setColor(chart.White)
		e.dc.DrawRectangle(o.Rect.X, o.Rect.Y, o.Rect.W, o.Rect.H)
		e.dc.Fill()
	case chart.FillRect:
		e.setColor(e.fill)
		e.dc.DrawRectangle(o.Rect.X, o.Rect.Y, o.Rect.W, o.Rect.H)
		e.dc.Fill()
	case chart.StrokeRect:
		e.setColor(e.stroke)
		e.dc.SetLineWidth(e.strokeWidth)
		e.dc.DrawRectangle(o.Rect.X, o.Rect.Y, o.Rect.W, o.Rect.H)
		e.dc.Stroke()
	case chart.StrokePath:
		if len(o.Points) == 0 {
			return
		}
		e.dc.MoveTo(o.Points[0].X, o.Points[0].Y)
		for _, pt := range o.Points[1:] {
			e.dc.LineTo(pt.X, pt.Y)
		}
		if o.Closed {
			e.dc.ClosePath()
		}
		e.setColor(e.stroke)
		e.dc.SetLineWidth(e.strokeWidth)
		e.dc.Stroke()
	case chart.SetFillColor:
		e.fill = o.Color
	case chart.SetStrokeColor:
		e.stroke = o.Color
	case chart.SetLineWidth:
		e.strokeWidth = o.Width
	case chart.SetFont:
		e.font = o.Font
		e.dc.SetFontFace(truetype.NewFace(e.fonts.variant(o.Font.Style), &truetype.Options{Size: o.Font.Size}))
	case chart.FillText:
		e.drawText(o)
	case chart.Save:
		e.dc.Push()
	case chart.Restore:
		e.dc.Pop()
	case chart.Translate:
		e.dc.Translate(o.Dx, o.Dy)
	case chart.Rotate:
		e.dc.Rotate(o.Angle)
	}
}

// drawText draws text with its baseline at the anchor y, shifted left by
// the alignment fraction of the measured width.
func (e *executor) drawText(o chart.FillText) {
	e.setColor(e.fill)
	x := o.At.X
	if o.Align != chart.AlignLeft {
		w, _ := e.dc.MeasureString(o.Text)
		if o.Align == chart.AlignCenter {
			x -= w / 2
		} else {
			x -= w
		}
	}
	e.dc.DrawString(o.Text, x, o.At.Y)
}

func (e *executor) setColor(c chart.RGB) {
	e.dc.SetRGB255(int(c.R), int(c.G), int(c.B))
}
