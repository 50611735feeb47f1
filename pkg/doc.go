// Package pkg provides the libraries behind diaconv, a converter from Dia
// diagrams to OpenDocument drawings.
//
// # Overview
//
// Dia stores diagrams as XML, usually gzip-compressed, with objects placed
// on a page measured from its printable area. LibreOffice Draw reads flat
// ODG: one XML file holding styles, page layout and drawing shapes. The
// packages here read the first and write the second, keeping connectors
// attached to the shapes they join.
//
// The typical data flow:
//
//	.dia file → dia.Decompress → markup.Parse → diagram.Assembler → .fodg
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/diaconv/pkg/diagram"
//	    "github.com/matzehuels/diaconv/pkg/markup"
//	)
//
//	root, _ := markup.Parse(r)
//	a := diagram.New(diagram.WithTemplates(lib))
//	res, _ := a.Convert(root, markup.NewXMLSink(w))
//	fmt.Println(res.Shapes, "shapes,", res.Routed, "connectors")
//
// Or let the pipeline do decoding, caching and graph export:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, _ := runner.Execute(ctx, pipeline.Options{Data: data})
//	os.WriteFile("out.fodg", res.Artifacts[pipeline.FormatODG], 0o644)
//
// # Main Packages
//
// ## Input
//
// [dia] - Gzip detection and sniffing of diagrams versus shape templates.
//
// [markup] - XML element tree for input and a streaming writer for output.
// Sinks receive start, text and end events; [markup.XMLSink] serialises
// them and [markup.Recorder] keeps them for tests.
//
// ## Conversion
//
// [diagram] - Reads diagram-level data (paper, margins, background, layers)
// and runs the four passes over all objects.
//
// [shape] - One type per Dia object kind: boxes, ellipses, lines, arcs,
// zigzag lines, polygons, beziers, text, images, groups and template
// shapes.
//
// [stencil] - Dia .shape templates: SVG subset, connection points, text
// box, and the [stencil.Library] that loads them from directories.
//
// [route] - Decides whether a zigzag line matches the path LibreOffice
// would draw for a standard connector, and finds the skew that makes it.
//
// [style] - Interns automatic graphic and paragraph styles so equal
// property sets share a name.
//
// [fonts] - Text metrics for growing narrow boxes, from embedded Go fonts
// or a fixed heuristic.
//
// [odf] - The office:document skeleton, namespaces and text paragraphs.
//
// [geom], [paper] - Points, ranges, lengths in cm and named paper sizes.
//
// ## By-products
//
// [graph] - The connectivity graph of a diagram in JSON node-link form.
//
// [render/nodelink] - The same graph as DOT, SVG or PNG via Graphviz.
//
// ## Infrastructure
//
// [pipeline] - decode → convert → export, used by both the CLI and the
// HTTP server so they behave the same.
//
// [cache] - Content-addressed output cache with file, Redis, MongoDB and
// null backends.
//
// [config] - TOML or YAML configuration with DIACONV_* overrides.
//
// [server] - HTTP API over the pipeline.
//
// [observability] - Hooks for pipeline stages, cache hits and requests.
//
// [errors] - Coded errors and per-document diagnostics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/route/...      # Specific package
//	go test -run Example ./...   # Examples only
//
// [dia]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/dia
// [markup]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/markup
// [diagram]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/diagram
// [shape]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/shape
// [stencil]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/stencil
// [route]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/route
// [style]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/style
// [fonts]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/fonts
// [odf]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/odf
// [geom]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/geom
// [paper]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/paper
// [graph]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/diaconv/pkg/errors
package pkg
