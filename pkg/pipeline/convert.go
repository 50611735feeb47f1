package pipeline

import (
	"bytes"

	"github.com/matzehuels/diaconv/pkg/dia"
	"github.com/matzehuels/diaconv/pkg/diagram"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

// Convert writes root as a flat ODG document. Diagrams go through
// [diagram.Assembler.Convert]; shape templates are drawn once on an
// otherwise empty page.
func Convert(root markup.Node, kind dia.Format, opts Options) ([]byte, *diagram.Result, error) {
	opts.SetDefaults()
	a := diagram.New(
		diagram.WithLogger(opts.Logger),
		diagram.WithFontMetrics(opts.Fonts),
		diagram.WithTemplates(opts.Templates),
		diagram.WithRouteConfig(opts.Router),
		diagram.WithBaseDir(opts.BaseDir),
		diagram.WithTitle(opts.Name),
	)

	var buf bytes.Buffer
	var sinkOpts []markup.XMLOption
	if opts.Indent {
		sinkOpts = append(sinkOpts, markup.WithIndent("  "))
	}
	sink := markup.NewXMLSink(&buf, sinkOpts...)

	var res *diagram.Result
	var err error
	if kind == dia.Shape {
		var t *stencil.Template
		t, err = stencil.Parse(root, stencil.WithLogger(opts.Logger))
		if err != nil {
			return nil, nil, err
		}
		res, err = a.ConvertShape(t, sink)
	} else {
		res, err = a.Convert(root, sink)
	}
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), res, nil
}
