// Package stencil reads Dia custom shape templates.
//
// A .shape file names a shape ("Network - Router"), lists its connection
// points and optional text box, and draws it with a small SVG subset:
// polygon, polyline, path, rect, ellipse, circle, line and g. [Parse]
// turns such a file into a [Template]; a [Library] holds the templates of
// a shape directory, keyed by name.
//
// # Scaling
//
// Template coordinates are arbitrary. When a diagram places a custom shape
// it gives the shape a frame, and [Template.Write] maps the template's
// scene (the extent of all primitives and the text box) onto that frame.
// Connection points are reported relative to the scene, in [-5, 5] on
// both axes, which is how glue points are expressed in the output.
//
// # Colours
//
// Primitives may use "foreground"/"fg" and "background"/"bg" in their
// fill and stroke to pick up the line and fill colour of the shape that
// uses them. [Template.GenerateStyles] resolves these per shape and
// returns the style names for [Template.Write], so a template itself
// never changes after parsing.
package stencil
