package shape

import (
	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/stencil"
	"github.com/matzehuels/diaconv/pkg/style"
)

// custom is a shape drawn by a shape template. Connection points come
// from the template.
type custom struct {
	object
	tmpl   *stencil.Template
	styles stencil.Styles
}

func (c *custom) Import(n markup.Node, ctx *ImportContext) error {
	if err := c.importStandard(n, ctx, nil); err != nil {
		return err
	}
	if c.tmpl != nil {
		c.styles = c.tmpl.GenerateStyles(ctx.Styles, c.styleProps, c.showBackground)
	}
	return nil
}

// Template returns the template drawing c, or nil.
func (c *custom) Template() *stencil.Template { return c.tmpl }

func (c *custom) ConnectionPointCount() int {
	if c.tmpl == nil {
		return 0
	}
	return c.tmpl.ConnectionPointCount()
}

func (c *custom) ConnectionDirection(i int) route.Direction {
	if c.tmpl == nil {
		return route.All
	}
	return c.tmpl.ConnectionDirection(i)
}

func (c *custom) SnapConnectionPoint(i int) (geom.Point, bool) {
	if c.tmpl == nil {
		return geom.Point{}, false
	}
	rel, ok := c.tmpl.ConnectionPoint(i)
	if !ok {
		return geom.Point{}, false
	}
	return c.snap(rel), true
}

func (c *custom) Write(w *markup.Writer, parent style.Properties) {
	if c.tmpl == nil {
		c.writeElement(w, "draw:rect", c.boxAttrs(parent))
		return
	}
	f := stencil.Frame{
		X:      c.x,
		Y:      c.y,
		Width:  c.w,
		Height: c.h,
		ID:     c.id,
		Attrs:  markup.Attrs(style.Merge(parent, c.attrs)),
	}
	c.tmpl.Write(w, f, c.styles, c.paragraphAttrs(), c.text)
}

// group holds nested shapes. It has no geometry of its own.
type group struct {
	children []Shape
}

func (g *group) Kind() Kind { return Group }
func (g *group) ID() string { return "" }

func (g *group) Import(n markup.Node, ctx *ImportContext) error {
	g.children = ctx.ImportChildren(n)
	return nil
}

// Children returns the shapes in the group in document order.
func (g *group) Children() []Shape { return g.children }

func (g *group) ConnectionPointCount() int                  { return 0 }
func (g *group) ConnectionDirection(int) route.Direction    { return route.All }
func (g *group) SnapConnectionPoint(int) (geom.Point, bool) { return geom.Point{}, false }

func (g *group) ResizeIfNarrow(m FontMetrics, s *style.Interner) {
	for _, c := range g.children {
		c.ResizeIfNarrow(m, s)
	}
}

func (g *group) AdjustConnections(lookup Lookup, r *route.Router) {
	for _, c := range g.children {
		c.AdjustConnections(lookup, r)
	}
}

func (g *group) Write(w *markup.Writer, parent style.Properties) {
	w.Start("draw:g", nil)
	for _, c := range g.children {
		c.Write(w, parent)
	}
	w.End("draw:g")
}

func (g *group) BoundingBox() geom.Range {
	var r geom.Range
	for _, c := range g.children {
		r = r.Union(c.BoundingBox())
	}
	return r
}
