// Package chart implements the layout and aggregation engine for
// single-series vertical bar charts.
//
// The engine is pure: it turns tabular rows plus surface dimensions into an
// ordered sequence of primitive draw instructions (a Plan) without touching
// any drawing surface itself. Hosts execute the Plan against whatever
// backend they own — a raster context, an SVG document, a terminal.
//
// The stages mirror the render control flow:
//
//	Aggregate → Order → (ScaleFor ∥ Partition) → BuildLayout → BuildPlan
//
// Each stage is an independent function so hosts and tests can run them in
// isolation. Nothing in this package performs I/O; text measurement is
// injected through [TextMeasurer].
package chart

import "fmt"

// Point is a position on the drawing surface. The origin is the top-left
// corner; y grows downward, matching canvas conventions.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle identified by its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Overlaps reports whether r and o share any interior area. Touching edges
// do not count as overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String formats the color as a CSS rgb() expression.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Standard colors used by the draw plan.
var (
	Black    = RGB{0, 0, 0}
	White    = RGB{255, 255, 255}
	GridGray = RGB{220, 220, 220}
)

// FontStyle selects the face variant for a piece of text.
type FontStyle string

const (
	FontRegular FontStyle = ""
	FontBold    FontStyle = "bold"
	FontItalic  FontStyle = "italic"
)

// FontSpec describes the font for a text instruction: a pixel size and a
// style variant. The family is owned by the executing backend.
type FontSpec struct {
	Size  float64   `json:"size"`
	Style FontStyle `json:"style,omitempty"`
}

// Align is the horizontal anchoring of a text instruction relative to its
// anchor point.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// TextMeasurer reports the rendered width of text in the given font. The
// engine uses it to size the y-axis tick label inset; hosts back it with
// whatever text stack they render with.
type TextMeasurer interface {
	Measure(text string, font FontSpec) float64
}

// MeasureFunc adapts a plain function to the TextMeasurer interface.
type MeasureFunc func(text string, font FontSpec) float64

// Measure implements TextMeasurer.
func (f MeasureFunc) Measure(text string, font FontSpec) float64 {
	return f(text, font)
}

// Entry is one category with its accumulated total. A slice of entries is
// the bar draw order: index 0 is the leftmost bar.
type Entry struct {
	Category string `json:"category"`
	Total    uint32 `json:"total"`
}

// Totals maps each category name to its accumulated item count.
type Totals map[string]uint32
