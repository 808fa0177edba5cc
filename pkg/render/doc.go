// Package render draws assignment results as Graphviz flow maps.
//
// # Usage
//
// Convert an evaluated assignment to DOT, then render to SVG:
//
//	dot := render.ToDOT(summary, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # DOT Format
//
// [ToDOT] produces Graphviz DOT source that can be rendered directly via
// [RenderSVG], saved and processed with external Graphviz tools, or
// customized before rendering.
//
// Nodes are circles laid out left to right. Each edge is labelled with its
// final flow (and, with Options.Detailed, its travel time) and drawn with a
// pen width proportional to its share of the largest edge flow. Edges that
// carry no flow are dashed and grey.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package render
