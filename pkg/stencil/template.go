package stencil

import (
	"io"
	"maps"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/odf"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/style"
)

// DefaultSize is the height in cm of a template placed without a frame.
const DefaultSize = 2.0

// ConnectionPoint is a connection point of a template in template
// coordinates, with the sides of the scene it lies on.
type ConnectionPoint struct {
	Pos geom.Point
	Dir route.Direction
}

// Template is a parsed .shape file. It is immutable once parsed and may be
// shared between conversions.
type Template struct {
	name    string
	points  []ConnectionPoint
	textBox geom.Range
	prims   []*primitive
	scene   geom.Range
}

// Option configures parsing and loading.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger for diagnostics about unsupported elements.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parse builds a template from the root element of a .shape file.
func Parse(root markup.Node, opts ...Option) (*Template, error) {
	o := buildOptions(opts)
	if markup.LocalName(root.Tag()) != "shape" {
		return nil, errors.New(errors.ErrCodeUnsupportedDocument, "not a shape file: root element is <%s>", root.Tag())
	}

	t := &Template{}
	if n, ok := markup.Child(root, "name"); ok {
		t.name = strings.TrimSpace(n.Text())
	}

	for _, conns := range markup.ChildrenByTag(root, "connections") {
		for _, pt := range markup.ChildrenByTag(conns, "point") {
			x, okx := pt.Attr("x")
			y, oky := pt.Attr("y")
			if !okx || !oky {
				continue
			}
			t.points = append(t.points, ConnectionPoint{Pos: geom.Pt(number(x), number(y)), Dir: route.All})
		}
	}

	for _, tb := range markup.ChildrenByTag(root, "textbox") {
		var v [4]float64
		complete := true
		for i, name := range []string{"x1", "y1", "x2", "y2"} {
			s, ok := tb.Attr(name)
			if !ok {
				complete = false
				break
			}
			v[i] = number(s)
		}
		if !complete {
			continue
		}
		t.textBox = geom.NewRange(geom.Pt(v[0], v[1]), geom.Pt(v[2], v[3]))
		t.scene = t.scene.Union(t.textBox)
	}

	for _, svg := range markup.ChildrenByTag(root, "svg") {
		t.importSVG(svg, nil, o.logger)
	}

	t.setDirections()
	return t, nil
}

// importSVG converts the supported elements below n. Attributes of
// enclosing g elements apply first and are overridden by the element's
// own.
func (t *Template) importSVG(n markup.Node, inherited []markup.Attr, logger *log.Logger) {
	for _, c := range n.Children() {
		kind := markup.LocalName(c.Tag())
		attrs := attrsOf(c)
		if kind == "g" {
			t.importSVG(c, append(append([]markup.Attr(nil), inherited...), attrs...), logger)
			continue
		}
		p := newPrimitive(kind)
		if p == nil {
			logger.Debug("unknown svg element", "tag", c.Tag())
			continue
		}
		for _, a := range append(append([]markup.Attr(nil), inherited...), attrs...) {
			if !p.set(kind, markup.LocalName(a.Name), a.Value, logger) {
				logger.Debug("unknown svg attribute", "element", kind, "name", a.Name, "value", a.Value)
			}
		}
		t.prims = append(t.prims, p)
		t.scene = t.scene.Union(p.bounds())
	}
}

// attrsOf lists the attributes of n in document order. Only
// *markup.Element exposes its attribute list.
func attrsOf(n markup.Node) []markup.Attr {
	if e, ok := n.(*markup.Element); ok {
		return e.Attrs
	}
	return nil
}

// setDirections derives each connection point's directions from the sides
// of the scene it lies on. Points inside the scene allow every direction.
func (t *Template) setDirections() {
	for i := range t.points {
		p := &t.points[i]
		var d route.Direction
		if p.Pos.X == t.scene.Min.X {
			d |= route.West
		}
		if p.Pos.X == t.scene.Max.X {
			d |= route.East
		}
		if p.Pos.Y == t.scene.Min.Y {
			d |= route.North
		}
		if p.Pos.Y == t.scene.Max.Y {
			d |= route.South
		}
		if d == route.None {
			d = route.All
		}
		p.Dir = d
	}
}

// Name returns the shape name, such as "Network - Router".
func (t *Template) Name() string { return t.name }

// Scene returns the extent of all primitives and the text box.
func (t *Template) Scene() geom.Range { return t.scene }

// ConnectionPointCount returns the number of connection points.
func (t *Template) ConnectionPointCount() int { return len(t.points) }

// ConnectionDirection returns the directions of connection point i, or
// [route.All] when i is out of range.
func (t *Template) ConnectionDirection(i int) route.Direction {
	if i < 0 || i >= len(t.points) {
		return route.All
	}
	return t.points[i].Dir
}

// ConnectionPoint returns connection point i relative to the scene, in
// [-5, 5] on both axes.
func (t *Template) ConnectionPoint(i int) (geom.Point, bool) {
	if i < 0 || i >= len(t.points) {
		return geom.Point{}, false
	}
	return t.relative(t.points[i].Pos), true
}

func (t *Template) relative(p geom.Point) geom.Point {
	return geom.Pt(
		-5+(p.X-t.scene.Min.X)*10/geom.SafeDimension(t.scene.Width()),
		-5+(p.Y-t.scene.Min.Y)*10/geom.SafeDimension(t.scene.Height()),
	)
}

// AspectRatio returns width over height of the scene.
func (t *Template) AspectRatio() float64 {
	return geom.SafeDimension(t.scene.Width()) / geom.SafeDimension(t.scene.Height())
}

// HasTextBox reports whether the template defines a text area.
func (t *Template) HasTextBox() bool { return !t.textBox.IsEmpty() }

// Styles holds the graphic style name of each primitive of a template, as
// generated for one shape.
type Styles []string

// GenerateStyles interns one graphic style per primitive, derived from the
// shape's own style parent, and registers the text box style when the
// template has a text area. With showBackground false every primitive is
// unfilled.
func (t *Template) GenerateStyles(in *style.Interner, parent style.Properties, showBackground bool) Styles {
	out := make(Styles, len(t.prims))
	for i, p := range t.prims {
		out[i] = in.Add(style.Graphic, p.styleFor(parent, showBackground))
	}
	if t.HasTextBox() {
		in.TextBox()
	}
	return out
}

// Frame places a template on the page.
type Frame struct {
	X, Y, Width, Height float64

	// ID is written as draw:id of the enclosing group.
	ID string

	// Attrs are defaults for every primitive, such as
	// draw:text-style-name. Position and size attributes are replaced.
	Attrs markup.Attrs
}

// DefaultFrame returns the frame used for a template on its own: at the
// origin, DefaultSize high and as wide as the aspect ratio demands.
func (t *Template) DefaultFrame() Frame {
	return Frame{Width: DefaultSize * t.AspectRatio(), Height: DefaultSize}
}

// Write emits the template as a draw:g scaled into f: the glue points, one
// element per primitive using styles, and the text box holding text with
// paragraph attributes para.
func (t *Template) Write(w *markup.Writer, f Frame, styles Styles, para markup.Attrs, text string) {
	group := markup.Attrs{}
	if f.ID != "" {
		group["draw:id"] = f.ID
	}
	w.Start("draw:g", group)

	for i, cp := range t.points {
		odf.WriteGluePoint(w, i, t.relative(cp.Pos))
	}

	pl := placement{
		origin: geom.Pt(f.X, f.Y),
		scene:  t.scene,
		hscale: f.Width / geom.SafeDimension(t.scene.Width()),
		vscale: f.Height / geom.SafeDimension(t.scene.Height()),
	}
	for i, p := range t.prims {
		a := maps.Clone(f.Attrs)
		if a == nil {
			a = markup.Attrs{}
		}
		delete(a, "draw:id")
		maps.Copy(a, p.attrs)
		if i < len(styles) && styles[i] != "" {
			a["draw:style-name"] = styles[i]
		}
		p.position(a, pl)
		w.Leaf(p.tag, a)
	}

	if t.HasTextBox() {
		a := markup.Attrs{"draw:style-name": style.TextBoxStyle}
		placeBox(a, t.textBox, pl)
		w.Start("draw:frame", a)
		w.Start("draw:text-box", nil)
		odf.WriteText(w, para, text)
		w.End("draw:text-box")
		w.End("draw:frame")
	}

	w.End("draw:g")
}
