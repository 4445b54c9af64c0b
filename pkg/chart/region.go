package chart

import "github.com/plotforge/barchart/pkg/errors"

// Border constants framing the drawable area. The surface border stroke is
// drawn at BorderWidth; BorderGap separates it from the regions inside.
const (
	BorderWidth = 2.0
	BorderGap   = 2.0
)

// Fractions of the display area occupied by the plot region. The remainder
// is split evenly between the margins on each axis.
const (
	plotWidthFraction  = 0.9
	plotHeightFraction = 0.8
)

// Regions divides the drawing surface into five mutually exclusive
// rectangles: the plot in the middle, the title strip above, the x-caption
// strip below, and the caption/overflow margins at the sides. Display is
// the drawable area inside the border padding; the five regions tile it
// exactly.
type Regions struct {
	Display Rect `json:"display"`
	Top     Rect `json:"top"`
	Bottom  Rect `json:"bottom"`
	Left    Rect `json:"left"`
	Right   Rect `json:"right"`
	Plot    Rect `json:"plot"`
}

// Partition computes the region set for a surface of the given dimensions.
//
// The plot occupies 90% of the display width and 80% of the display height,
// centered on both axes. Partition depends only on the dimensions and the
// border constants; it is recomputed on every render because the host may
// resize the surface between calls.
//
// A zero or negative dimension is a DEGENERATE_SURFACE error: the render
// fails fast before any draw instruction exists.
func Partition(surfaceWidth, surfaceHeight float64) (Regions, error) {
	pad := BorderWidth + BorderGap
	if surfaceWidth <= 2*pad || surfaceHeight <= 2*pad {
		return Regions{}, errors.New(errors.ErrCodeDegenerateSurface,
			"surface %gx%g is too small to partition", surfaceWidth, surfaceHeight)
	}

	display := Rect{
		X: pad,
		Y: pad,
		W: surfaceWidth - 2*pad,
		H: surfaceHeight - 2*pad,
	}

	plotW := display.W * plotWidthFraction
	plotH := display.H * plotHeightFraction
	marginX := (display.W - plotW) / 2
	marginY := (display.H - plotH) / 2

	return Regions{
		Display: display,
		Top:     Rect{X: display.X, Y: display.Y, W: display.W, H: marginY},
		Bottom:  Rect{X: display.X, Y: display.Y + marginY + plotH, W: display.W, H: marginY},
		Left:    Rect{X: display.X, Y: display.Y + marginY, W: marginX, H: plotH},
		Right:   Rect{X: display.X + marginX + plotW, Y: display.Y + marginY, W: marginX, H: plotH},
		Plot:    Rect{X: display.X + marginX, Y: display.Y + marginY, W: plotW, H: plotH},
	}, nil
}
