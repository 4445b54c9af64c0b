// Package render provides output sinks for computed draw plans.
//
// # Overview
//
// A sink executes the ordered instruction sequence of a [chart.Plan]
// against one concrete backend. Every sink consumes the same plan, so a
// chart rendered to SVG, PNG, and JSON from one plan is pixel-consistent
// across formats:
//
//   - SVG: hand-emitted vector output ([RenderSVG])
//   - PNG: raster output via a 2D drawing context ([RenderPNG])
//   - JSON: the raw instruction sequence as tagged objects, for external
//     hosts that execute the plan themselves ([RenderJSON])
//
// The package also provides the production [Measurer], which backs the
// layout stage's text measurement with the same font the PNG sink draws
// with, so measured insets match rendered glyphs.
//
// [chart.Plan]: github.com/plotforge/barchart/pkg/chart.Plan
package render
