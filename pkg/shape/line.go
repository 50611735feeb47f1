package shape

import (
	"math"

	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/style"
)

// line is a straight connector between two endpoints.
type line struct {
	object
}

func (l *line) Import(n markup.Node, ctx *ImportContext) error {
	if err := l.importStandard(n, ctx, nil); err != nil {
		return err
	}
	if len(l.endpoints) < 2 {
		ctx.malformed("conn_endpoints", "", errNoPoints)
	}
	return nil
}

func (l *line) BoundingBox() geom.Range { return geom.RangeOf(l.endpoints...) }

func (l *line) Write(w *markup.Writer, parent style.Properties) {
	a := l.shapeAttrs(parent)
	a["draw:type"] = "line"
	if len(l.endpoints) >= 2 {
		setLine(a, l.endpoints[0], l.endpoints[len(l.endpoints)-1])
	}
	l.connectionAttrs(a)
	w.Start("draw:connector", a)
	l.writeText(w)
	w.End("draw:connector")
}

// arc is a circular arc through two endpoints bulging by curveDistance.
type arc struct {
	object
	curveDistance float64

	// Angles in degrees, counterclockwise from the positive x axis.
	startAngle, endAngle float64
	ok                   bool
}

func (a *arc) Import(n markup.Node, ctx *ImportContext) error {
	err := a.importStandard(n, ctx, func(name string, attr markup.Node) bool {
		if name != "curve_distance" {
			return false
		}
		a.curveDistance = number(simpleValue(attr))
		return true
	})
	if err != nil {
		return err
	}
	if len(a.endpoints) < 2 {
		ctx.malformed("conn_endpoints", "", errNoPoints)
		return nil
	}
	if geom.NearlyZero(a.curveDistance) {
		return nil
	}
	a.fit(a.endpoints[0], a.endpoints[1])
	return nil
}

// fit computes the circle through p1 and p2 whose chord midpoint is
// curveDistance away from the arc, and sets the box to its bounds.
func (a *arc) fit(p1, p2 geom.Point) {
	cd := a.curveDistance
	d := p2.Sub(p1)
	lensq := d.X*d.X + d.Y*d.Y
	radius := lensq/(8*cd) + cd/2

	alpha := 1.0
	if lensq != 0 {
		alpha = (radius - cd) / math.Sqrt(lensq)
	}
	center := p1.Lerp(p2, 0.5).Add(geom.Pt(d.Y, -d.X).Scale(alpha))

	a.startAngle = angle(p1, center)
	a.endAngle = angle(p2, center)
	if radius < 0 {
		a.startAngle, a.endAngle = a.endAngle, a.startAngle
		radius = -radius
	}
	a.x, a.y = center.X-radius, center.Y-radius
	a.w, a.h = 2*radius, 2*radius
	a.ok = true
}

// angle returns the direction of p seen from c in degrees within
// [0, 360). The y axis points down, so angles run counterclockwise on
// screen.
func angle(p, c geom.Point) float64 {
	deg := -math.Atan2(p.Y-c.Y, p.X-c.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

func (a *arc) BoundingBox() geom.Range {
	if a.ok {
		return a.box()
	}
	return geom.RangeOf(a.endpoints...)
}

// Write draws a straight line when the arc has no curvature.
func (a *arc) Write(w *markup.Writer, parent style.Properties) {
	if !a.ok {
		attrs := a.shapeAttrs(parent)
		if len(a.endpoints) >= 2 {
			setLine(attrs, a.endpoints[0], a.endpoints[1])
		}
		w.Start("draw:line", attrs)
		a.writeText(w)
		w.End("draw:line")
		return
	}
	attrs := a.boxAttrs(parent)
	attrs["draw:kind"] = "arc"
	attrs["draw:start-angle"] = geom.FormatFloat(a.startAngle)
	attrs["draw:end-angle"] = geom.FormatFloat(a.endAngle)
	w.Start("draw:circle", attrs)
	a.writeText(w)
	w.End("draw:circle")
}

// pointsFrame returns the frame enclosing pts and its viewBox. Frames of
// degenerate point lists are widened to one viewport unit.
func pointsFrame(pts []geom.Point) (geom.Range, geom.Viewport) {
	r := geom.RangeOf(pts...)
	vp := geom.PointsViewport(pts)
	return geom.Rect(r.Min.X, r.Min.Y, vp.Width/geom.ViewportScale, vp.Height/geom.ViewportScale), vp
}

// writePolyline writes pts as an open draw:polyline.
func (o *object) writePolyline(w *markup.Writer, parent style.Properties, pts []geom.Point) {
	a := o.shapeAttrs(parent)
	frame, vp := pointsFrame(pts)
	setBox(a, frame)
	a["svg:viewBox"] = vp.String()
	a["draw:points"] = geom.FormatPoints(geom.ScalePoints(pts, geom.ViewportScale))
	w.Start("draw:polyline", a)
	o.writeText(w)
	w.End("draw:polyline")
}

// polyline is an open run of straight segments.
type polyline struct {
	object
}

func (p *polyline) Import(n markup.Node, ctx *ImportContext) error {
	if err := p.importStandard(n, ctx, nil); err != nil {
		return err
	}
	if len(p.points) == 0 {
		ctx.malformed("poly_points", "", errNoPoints)
	}
	return nil
}

func (p *polyline) BoundingBox() geom.Range { return geom.RangeOf(p.points...) }

func (p *polyline) Write(w *markup.Writer, parent style.Properties) {
	if len(p.points) == 0 {
		return
	}
	p.writePolyline(w, parent, p.points)
}

// bezier is an open Bézier line, or with closed set a Beziergon.
type bezier struct {
	object
	closed bool
	path   geom.Polygon
	view   geom.Range
}

func (b *bezier) Import(n markup.Node, ctx *ImportContext) error {
	if err := b.importStandard(n, ctx, nil); err != nil {
		return err
	}
	b.view = b.box()
	if len(b.points) == 0 {
		ctx.malformed("bez_points", "", errNoPoints)
		return nil
	}
	b.path = curvePath(b.points, b.closed)
	if b.closed {
		b.connectionPoints()
	}
	return nil
}

// curvePath reads Dia's Bézier point list: a start point followed by
// triples of two handles and an end point. A closed path whose last point
// repeats the start ends on the start instead.
func curvePath(pts []geom.Point, closed bool) geom.Polygon {
	p := geom.NewPolygon(closed, pts[0])
	rest := pts[1:]
	for len(rest) >= 3 {
		end := rest[2]
		if closed && len(rest) == 3 && end.NearlyEqual(pts[0]) {
			c1, c2 := rest[0], rest[1]
			p.Vertices = append(p.Vertices,
				geom.Vertex{Point: c1, Control: true},
				geom.Vertex{Point: c2, Control: true},
			)
			break
		}
		p.CurveTo(rest[0], rest[1], end)
		rest = rest[3:]
	}
	return p
}

// connectionPoints places a point at the start and middle of every
// segment and one at the center, over the path scaled into [-5, 5].
func (b *bezier) connectionPoints() {
	norm := b.path.Transform(geom.NormalizeTo(b.path.Range(), -5, 5))
	for i := 0; i < norm.SegmentCount(); i++ {
		seg := norm.Segment(i)
		mid := seg.At(0.5)
		b.cps = append(b.cps,
			ConnectionPoint{seg.Start.X, seg.Start.Y, route.All},
			ConnectionPoint{mid.X, mid.Y, route.All},
		)
	}
	c := norm.Range().Center()
	b.cps = append(b.cps, ConnectionPoint{c.X, c.Y, route.All})
}

func (b *bezier) BoundingBox() geom.Range {
	if len(b.path.Vertices) == 0 {
		return b.box()
	}
	return b.path.Range()
}

func (b *bezier) Write(w *markup.Writer, parent style.Properties) {
	if len(b.path.Vertices) == 0 {
		return
	}
	a := b.boxAttrs(parent)
	a["svg:viewBox"] = geom.RectViewport(b.view.Min.X, b.view.Min.Y, b.view.Width(), b.view.Height()).String()
	scaled := b.path.Transform(geom.NewScale(geom.ViewportScale, geom.ViewportScale))
	a["svg:d"] = geom.FormatPath(geom.PolyPolygon{scaled})
	b.writeElement(w, "draw:path", a)
}
