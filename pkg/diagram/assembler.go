package diagram

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/fonts"
	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/odf"
	"github.com/matzehuels/diaconv/pkg/paper"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/shape"
	"github.com/matzehuels/diaconv/pkg/stencil"
	"github.com/matzehuels/diaconv/pkg/style"
)

// parentAttrs apply to every shape unless it sets them itself.
var parentAttrs = style.Properties{"draw:layer": "layout"}

// Assembler converts Dia diagrams. The zero value is not usable; call
// [New].
type Assembler struct {
	logger    *log.Logger
	measurer  fonts.Measurer
	templates *stencil.Library
	route     route.Config
	baseDir   string
	title     string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger for diagnostics. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithFontMetrics sets how text is measured when shapes are resized to
// fit their text. The default is [fonts.Heuristic].
func WithFontMetrics(m fonts.Measurer) Option {
	return func(a *Assembler) {
		if m != nil {
			a.measurer = m
		}
	}
}

// WithTemplates sets the library custom shapes are looked up in.
func WithTemplates(l *stencil.Library) Option {
	return func(a *Assembler) { a.templates = l }
}

// WithRouteConfig sets the router constants used to decide whether a
// zigzag line becomes a standard connector.
func WithRouteConfig(c route.Config) Option {
	return func(a *Assembler) { a.route = c }
}

// WithBaseDir sets the directory relative image paths resolve against,
// usually the directory of the .dia file.
func WithBaseDir(dir string) Option {
	return func(a *Assembler) { a.baseDir = dir }
}

// WithTitle sets the document title written to office:meta.
func WithTitle(title string) Option {
	return func(a *Assembler) { a.title = title }
}

// New returns an Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		logger:   log.New(io.Discard),
		measurer: fonts.Heuristic{},
		route:    route.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Convert writes the ODF document for the Dia diagram rooted at root to
// sink. A root other than dia:diagram fails with
// [errors.ErrCodeUnsupportedDocument] before sink is called. Problems
// inside the diagram do not fail the conversion; they are logged and
// counted in the result.
func (a *Assembler) Convert(root markup.Node, sink markup.Sink) (*Result, error) {
	if root == nil || markup.LocalName(root.Tag()) != "diagram" {
		tag := ""
		if root != nil {
			tag = root.Tag()
		}
		a.logger.Warn("not a Dia diagram", "root", tag)
		return nil, errors.New(errors.ErrCodeUnsupportedDocument, "not a Dia diagram: root element is <%s>", tag)
	}
	if err := a.route.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "router config")
	}

	start := time.Now()
	styles := style.New(style.WithMeasurer(a.measurer), style.WithLogger(a.logger))
	ctx := shape.NewImportContext(styles)
	ctx.Templates = a.templates
	ctx.BaseDir = a.baseDir
	ctx.Logger = a.logger
	diags := ctx.Diagnostics

	// Page setup comes first: the margins offset every shape.
	var pg page
	for _, n := range markup.ChildrenByTag(root, "diagramdata") {
		a.readDiagramData(n, &pg, diags)
	}
	ctx.Margin = pg.margin

	var shapes []shape.Shape
	for _, c := range root.Children() {
		switch markup.LocalName(c.Tag()) {
		case "diagramdata":
		case "layer":
			shapes = append(shapes, ctx.ImportChildren(c)...)
		default:
			a.unknown(diags, "diagram element", c.Tag())
		}
	}

	for _, s := range shapes {
		s.ResizeIfNarrow(styles, styles)
	}
	router := route.New(a.route)
	for _, s := range shapes {
		s.AdjustConnections(ctx.Lookup, router)
	}

	var scene geom.Range
	for _, s := range shapes {
		scene = scene.Union(s.BoundingBox())
	}
	pg.grow(scene)

	doc := odf.Document{
		Title:       a.title,
		Styles:      styles,
		PageLayout:  pg.layout,
		DrawingPage: pg.background,
	}
	err := doc.Write(sink, func(w *markup.Writer) error {
		for _, s := range shapes {
			s.Write(w, parentAttrs)
		}
		return w.Err()
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write document")
	}

	res := newResult(shapes, ctx)
	res.PageWidth, res.PageHeight = pg.width, pg.height
	a.logger.Debug("diagram converted",
		"shapes", res.Shapes,
		"routed", res.Routed,
		"degraded", res.Degraded,
		"diagnostics", res.Diagnostics.Len(),
		"styles", styles.Len(style.Graphic),
		"elapsed", time.Since(start))
	return res, nil
}

// ConvertShape writes a document showing template t alone, at its default
// size on an A4 page without margins.
func (a *Assembler) ConvertShape(t *stencil.Template, sink markup.Sink) (*Result, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no shape template")
	}
	styles := style.New(style.WithMeasurer(a.measurer), style.WithLogger(a.logger))
	styles.TextBox()
	parent := style.Properties{
		"svg:stroke-width": "0.1cm",
		"svg:stroke-color": "#000000",
		"draw:fill-color":  "#ffffff",
	}
	prims := t.GenerateStyles(styles, parent, true)

	a4, _ := paper.Lookup("A4")
	title := a.title
	if title == "" {
		title = t.Name()
	}
	doc := odf.Document{
		Title:  title,
		Styles: styles,
		PageLayout: style.Properties{
			"fo:margin-top":    "0mm",
			"fo:margin-bottom": "0mm",
			"fo:margin-left":   "0mm",
			"fo:margin-right":  "0mm",
			"fo:page-width":    mm(a4.Width),
			"fo:page-height":   mm(a4.Height),
		},
		DrawingPage: style.Properties{},
	}
	err := doc.Write(sink, func(w *markup.Writer) error {
		t.Write(w, t.DefaultFrame(), prims, nil, "")
		return w.Err()
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write document")
	}
	return &Result{Shapes: 1, Diagnostics: &errors.Diagnostics{}, PageWidth: a4.Width, PageHeight: a4.Height}, nil
}

func (a *Assembler) unknown(diags *errors.Diagnostics, what, name string) {
	a.logger.Debug("unknown "+what, "name", name)
	diags.Add(errors.ErrCodeUnknownElement, "unknown %s %q", what, name)
}
