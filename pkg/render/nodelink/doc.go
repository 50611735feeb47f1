// Package nodelink renders the connectivity of a diagram as a node-link
// picture.
//
// # Overview
//
// A converted diagram yields a [graph.Graph]: shapes as nodes, connectors
// as edges. This package lays that graph out with Graphviz, which is
// useful for checking what a large diagram actually connects without
// opening the drawing.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(res.Graph(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// [RenderPNG] produces a raster image instead.
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded
// box nodes. Ellipse and diamond shapes keep their outline, endpoints that
// name no shape are dashed, and connectors that were written as polylines
// rather than standard connectors get dashed edges.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process, so no external tools are needed.
package nodelink
