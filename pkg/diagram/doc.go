// Package diagram assembles a converted Dia diagram into an ODF flat
// drawing document.
//
// An [Assembler] takes the parsed root of a .dia file and drives the
// conversion: it reads the page setup from dia:diagramdata, imports the
// objects and groups of every layer through a [shape.ImportContext], runs
// the resize and connection passes over the whole shape tree, grows the
// page until the scene fits and finally writes the document through an
// [odf.Document] into a [markup.Sink].
//
// Conversion is all or nothing: the root element is checked before the
// sink sees any event, so an unsupported document leaves the sink
// untouched.
//
//	a := diagram.New(diagram.WithTemplates(lib), diagram.WithLogger(logger))
//	res, err := a.Convert(root, markup.NewXMLSink(w))
//
// [Assembler.ConvertShape] writes a single shape template on an A4 page,
// which is how standalone .shape files are opened.
//
// An Assembler may be reused, but not concurrently: each Convert builds
// its own style interner and id table.
package diagram
