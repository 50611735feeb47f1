package shape

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/stencil"
	"github.com/matzehuels/diaconv/pkg/style"
)

// ImportContext carries what shapes need while they are read: the style
// interner, the page margins and the template library. It also collects
// every shape that has an id, so connectors can find the shapes they
// join once all objects are read.
type ImportContext struct {
	Styles *style.Interner

	// Margin is the left and top page margin in cm. Dia coordinates are
	// relative to the printable area; ODF coordinates to the page.
	Margin geom.Point

	Templates *stencil.Library

	// BaseDir resolves relative image paths. When empty they are written
	// as they are.
	BaseDir string

	Logger      *log.Logger
	Diagnostics *errors.Diagnostics

	ids map[string]Shape
}

// NewImportContext returns a context writing styles into s.
func NewImportContext(s *style.Interner) *ImportContext {
	return &ImportContext{
		Styles:      s,
		Logger:      log.New(io.Discard),
		Diagnostics: &errors.Diagnostics{},
		ids:         make(map[string]Shape),
	}
}

// Lookup returns the shape imported with id.
func (c *ImportContext) Lookup(id string) (Shape, bool) {
	s, ok := c.ids[id]
	return s, ok
}

// Shapes returns the number of shapes registered by id.
func (c *ImportContext) Shapes() int { return len(c.ids) }

func (c *ImportContext) register(s Shape) {
	if id := s.ID(); id != "" {
		if c.ids == nil {
			c.ids = make(map[string]Shape)
		}
		c.ids[id] = s
	}
}

func (c *ImportContext) logger() *log.Logger {
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c.Logger
}

func (c *ImportContext) diagnostics() *errors.Diagnostics {
	if c.Diagnostics == nil {
		c.Diagnostics = &errors.Diagnostics{}
	}
	return c.Diagnostics
}

func (c *ImportContext) unknown(what, name string) {
	c.logger().Debug("unknown "+what, "name", name)
	c.diagnostics().Add(errors.ErrCodeUnknownElement, "unknown %s %q", what, name)
}

func (c *ImportContext) malformed(what, value string, err error) {
	c.logger().Warn("malformed geometry", "attribute", what, "value", value, "err", err)
	c.diagnostics().Add(errors.ErrCodeMalformedGeometry, "%s %q: %v", what, value, err)
}

// adjust moves a diagram point onto the page.
func (c *ImportContext) adjust(p geom.Point) geom.Point { return p.Add(c.Margin) }

// ImportObject reads one dia:object. Objects of an unknown type with no
// matching template become boxes. Import problems are recorded in the
// diagnostics; the returned error is only set when the object cannot be
// read at all.
func (c *ImportContext) ImportObject(n markup.Node) (Shape, error) {
	typ, ok := n.Attr("type")
	if !ok || typ == "" {
		c.unknown("object without type", markup.AttrOr(n, "id", ""))
		return nil, errors.New(errors.ErrCodeInvalidInput, "object without type")
	}

	var s Shape
	if k, ok := KindOf(typ); ok {
		s = New(k)
	} else if t, ok := c.Templates.Lookup(typ); ok {
		s = NewCustom(t)
	} else {
		c.logger().Warn("unknown shape, substituting a box", "type", typ)
		c.diagnostics().Add(errors.ErrCodeTemplateNotFound, "unknown shape %q, substituted with a box", typ)
		s = New(Box)
	}

	if err := s.Import(n, c); err != nil {
		return nil, err
	}
	c.register(s)
	return s, nil
}

// ImportGroup reads a dia:group and its children.
func (c *ImportContext) ImportGroup(n markup.Node) (Shape, error) {
	g := New(Group)
	if err := g.Import(n, c); err != nil {
		return nil, err
	}
	return g, nil
}

// ImportChildren reads the objects and groups below n in document order.
// Children that fail to import are reported and skipped.
func (c *ImportContext) ImportChildren(n markup.Node) []Shape {
	var out []Shape
	for _, child := range n.Children() {
		var (
			s   Shape
			err error
		)
		switch markup.LocalName(child.Tag()) {
		case "object":
			s, err = c.ImportObject(child)
		case "group":
			s, err = c.ImportGroup(child)
		default:
			c.unknown("element", child.Tag())
			continue
		}
		if err != nil {
			c.logger().Warn("skipping object", "err", err)
			continue
		}
		out = append(out, s)
	}
	return out
}
