// Package render holds the renderers for by-products of a conversion.
//
// The drawing itself is written by pkg/odf; the subpackages here draw
// the structure of a diagram for inspection:
//
//   - [nodelink]: the connectivity graph laid out with Graphviz
//
// [nodelink]: github.com/matzehuels/diaconv/pkg/render/nodelink
package render
