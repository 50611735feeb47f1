// Package odf writes the OpenDocument drawing envelope.
//
// A flat ODG file is one office:document element holding the named styles
// (markers, stroke dashes and the "standard" graphic style), the automatic
// styles generated while importing shapes, a single master page and the
// drawing body. [Document.Write] emits all of it around a caller-supplied
// body function, so shape emitters only deal with draw:* elements.
//
// # Text
//
// [WriteText] writes a text:p paragraph, one text:span per line with a
// line break span between lines. Shapes and custom shape templates use it
// for their labels.
//
// # Glue points
//
// Connection points are written as draw:glue-point elements whose svg:x
// and svg:y are relative positions in [-5cm, 5cm]. Their ids start at
// [FirstGluePoint], which is also how Dia numbers them in connections.
package odf
