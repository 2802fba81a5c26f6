// Package render draws placed scenes.
//
// # Overview
//
// Two renderers work from a [sceneio.Document]:
//
//   - [RenderSVG] plots the scene top-down: the environment rectangle, the
//     layout tiles, and every object footprint filled with the object color.
//   - [ToDOT] and [RenderGraphviz] describe the scene as a Graphviz graph
//     with one pinned node per object and one cluster per site, laid out by
//     neato so node positions match scene positions.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG using the external
// rsvg-convert tool (from librsvg):
//
//	svg := render.RenderSVG(doc, render.WithLabels())
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is missing both return an UNSUPPORTED error.
package render
