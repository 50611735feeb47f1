// Package geom provides the 2D geometry kernel used by the converter.
//
// # Overview
//
// Diagram shapes are described in real-world units (centimetres) and are
// moved, flipped, sheared and normalized into viewports before being written
// out. This package holds the value types that make that possible:
//
//   - [Point]: a 2D vector with the usual arithmetic
//   - [Matrix]: a 3×3 homogeneous transform with a fast path for affine use
//   - [Range]: an axis-aligned bounding box that may be empty
//   - [Polygon] and [PolyPolygon]: point sequences with optional cubic
//     Bézier handles
//   - [CubicBezier]: a single cubic segment
//
// All types are plain values. Transforming a polygon returns a new polygon;
// nothing in the package mutates shared state.
//
// # Composition Order
//
// Matrix builders compose in application order: each call applies after the
// ones before it.
//
//	m := geom.Identity().Translate(-x, 0).Scale(-1, 1).Translate(x+w, 0)
//	p := m.Apply(geom.Point{X: x, Y: 0}) // p.X == x+w
//
// # Parsing
//
// [ParsePoints], [ParseRect] and [ParsePath] read the textual forms used by
// both diagram formats (SVG point lists and SVG path data). Parse failures
// are returned as errors so callers can fall back to empty geometry instead
// of aborting a conversion. [FormatPoints] and [FormatPath] write them back.
//
// # Degenerate Ranges
//
// A polygon with a single point has a zero-size range. Code that divides by a
// range's width or height must clamp it first with [SafeDimension] or
// [SafeViewportDimension].
package geom
