package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/plotforge/barchart/pkg/chart"
)

// svgEscaper escapes text content for embedding in SVG elements.
var svgEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// svgState tracks the drawing state ops mutate between draw instructions.
type svgState struct {
	fill        chart.RGB
	stroke      chart.RGB
	strokeWidth float64
	font        chart.FontSpec
}

// RenderSVG executes the plan as a standalone SVG document.
//
// Transform ops map onto nested <g> groups: each Translate or Rotate opens
// a group carrying the transform, and Restore closes every group opened
// since the matching Save. ClearRect is a no-op here; the plan's own
// background fill paints the surface.
func RenderSVG(p *chart.Plan) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.1f %.1f">`+"\n",
		p.Surface.W, p.Surface.H, p.Surface.W, p.Surface.H)

	st := svgState{strokeWidth: 1}
	// Group-open counts per Save frame, so Restore knows how many </g> to emit.
	var frames []int

	for _, op := range p.Ops {
		switch o := op.(type) {
		case chart.ClearRect:
			// SVG surfaces start blank.
		case chart.FillRect:
			fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
				o.Rect.X, o.Rect.Y, o.Rect.W, o.Rect.H, st.fill)
		case chart.StrokeRect:
			fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n",
				o.Rect.X, o.Rect.Y, o.Rect.W, o.Rect.H, st.stroke, st.strokeWidth)
		case chart.StrokePath:
			writeSVGPath(&buf, o, st)
		case chart.SetFillColor:
			st.fill = o.Color
		case chart.SetStrokeColor:
			st.stroke = o.Color
		case chart.SetLineWidth:
			st.strokeWidth = o.Width
		case chart.SetFont:
			st.font = o.Font
		case chart.FillText:
			writeSVGText(&buf, o, st)
		case chart.Save:
			frames = append(frames, 0)
		case chart.Restore:
			if n := len(frames); n > 0 {
				for i := 0; i < frames[n-1]; i++ {
					buf.WriteString("</g>\n")
				}
				frames = frames[:n-1]
			}
		case chart.Translate:
			fmt.Fprintf(&buf, `<g transform="translate(%.2f, %.2f)">`+"\n", o.Dx, o.Dy)
			bumpFrame(frames)
		case chart.Rotate:
			fmt.Fprintf(&buf, `<g transform="rotate(%.4f)">`+"\n", o.Angle*180/math.Pi)
			bumpFrame(frames)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func bumpFrame(frames []int) {
	if n := len(frames); n > 0 {
		frames[n-1]++
	}
}

func writeSVGPath(buf *bytes.Buffer, o chart.StrokePath, st svgState) {
	if len(o.Points) == 0 {
		return
	}
	tag := "polyline"
	if o.Closed {
		tag = "polygon"
	}
	fmt.Fprintf(buf, `<%s points="`, tag)
	for i, pt := range o.Points {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%.2f,%.2f", pt.X, pt.Y)
	}
	fmt.Fprintf(buf, `" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n", st.stroke, st.strokeWidth)
}

func writeSVGText(buf *bytes.Buffer, o chart.FillText, st svgState) {
	anchor := "start"
	switch o.Align {
	case chart.AlignCenter:
		anchor = "middle"
	case chart.AlignRight:
		anchor = "end"
	}

	var style string
	switch st.font.Style {
	case chart.FontBold:
		style = ` font-weight="bold"`
	case chart.FontItalic:
		style = ` font-style="italic"`
	}

	fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.2f" text-anchor="%s" fill="%s"%s>%s</text>`+"\n",
		o.At.X, o.At.Y, st.font.Size, anchor, st.fill, style, svgEscaper.Replace(o.Text))
}
