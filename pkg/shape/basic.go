package shape

import (
	"math"
	"slices"

	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/style"
)

const (
	northWest = route.North | route.West
	northEast = route.North | route.East
	southWest = route.South | route.West
	southEast = route.South | route.East
)

// ellipseStep is where the diagonal points of an ellipse sit: 5·√½.
var ellipseStep = 5 * math.Sqrt2 / 2

var boxPoints = []ConnectionPoint{
	{-5, -5, northWest},
	{0, -5, route.North},
	{5, -5, northEast},
	{-5, 0, route.West},
	{5, 0, route.East},
	{-5, 5, southWest},
	{0, 5, route.South},
	{5, 5, southEast},
	{0, 0, route.All},
}

var ellipsePoints = []ConnectionPoint{
	{-ellipseStep, -ellipseStep, northWest},
	{0, -5, route.North},
	{ellipseStep, -ellipseStep, northEast},
	{-5, 0, route.West},
	{5, 0, route.East},
	{-ellipseStep, ellipseStep, southWest},
	{0, 5, route.South},
	{ellipseStep, ellipseStep, southEast},
	{0, 0, route.All},
}

var flowchartPoints = []ConnectionPoint{
	{-5, -5, northWest},
	{-2.5, -5, route.North},
	{0, -5, route.North},
	{2.5, -5, route.North},
	{5, -5, northEast},
	{-5, -2.5, route.West},
	{5, -2.5, route.East},
	{-5, 0, route.West},
	{5, 0, route.East},
	{-5, 2.5, route.West},
	{5, 2.5, route.East},
	{-5, 5, southWest},
	{-2.5, 5, route.South},
	{0, 5, route.South},
	{2.5, 5, route.South},
	{5, 5, southEast},
	{0, 0, route.All},
}

// diamondPoints runs clockwise from the top corner.
var diamondPoints = []ConnectionPoint{
	{0, -5, route.North},
	{1.25, -3.75, northEast},
	{2.5, -2.5, northEast},
	{3.75, -1.25, northEast},
	{5, 0, route.East},
	{3.75, 1.25, southEast},
	{2.5, 2.5, southEast},
	{1.25, 3.75, southEast},
	{0, 5, route.South},
	{-1.25, 3.75, southWest},
	{-2.5, 2.5, southWest},
	{-3.75, 1.25, southWest},
	{-5, 0, route.West},
	{-3.75, -1.25, northWest},
	{-2.5, -2.5, northWest},
	{-1.25, -3.75, northWest},
	{0, 0, route.All},
}

// box is a shape drawn as a plain ODF rectangle or ellipse.
type box struct {
	object
}

func newBox(k Kind, cps []ConnectionPoint) *box {
	b := &box{object: newObject(k)}
	b.cps = slices.Clone(cps)
	return b
}

func (b *box) Import(n markup.Node, ctx *ImportContext) error {
	return b.importStandard(n, ctx, nil)
}

func (b *box) Write(w *markup.Writer, parent style.Properties) {
	tag := "draw:rect"
	if b.kind == Ellipse || b.kind == FlowchartEllipse {
		tag = "draw:ellipse"
	}
	b.writeElement(w, tag, b.boxAttrs(parent))
}

// writePolygon writes pts as a draw:polygon filling the object's box. The
// viewBox is view scaled to viewport units.
func (o *object) writePolygon(w *markup.Writer, parent style.Properties, view geom.Range, pts []geom.Point) {
	a := o.boxAttrs(parent)
	a["svg:viewBox"] = geom.RectViewport(view.Min.X, view.Min.Y, view.Width(), view.Height()).String()
	a["draw:points"] = geom.FormatPoints(geom.ScalePoints(pts, geom.ViewportScale))
	o.writeElement(w, "draw:polygon", a)
}

func (o *object) box() geom.Range { return geom.Rect(o.x, o.y, o.w, o.h) }

// polygon is a closed polygon with a connection point on every vertex and
// every edge midpoint.
type polygon struct {
	object
	view geom.Range
}

func (p *polygon) Import(n markup.Node, ctx *ImportContext) error {
	if err := p.importStandard(n, ctx, nil); err != nil {
		return err
	}
	p.view = p.box()
	if len(p.points) == 0 {
		ctx.malformed("poly_points", "", errNoPoints)
		return nil
	}

	poly := geom.NewPolygon(true, p.points...).Transform(geom.NormalizeTo(geom.RangeOf(p.points...), -5, 5))
	pts := poly.Points()
	for i, pt := range pts {
		if i > 0 {
			p.cps = append(p.cps, midpoint(pts[i-1], pt))
		}
		p.cps = append(p.cps, ConnectionPoint{pt.X, pt.Y, route.All})
	}
	p.cps = append(p.cps, midpoint(pts[len(pts)-1], pts[0]))
	return nil
}

func midpoint(a, b geom.Point) ConnectionPoint {
	m := a.Lerp(b, 0.5)
	return ConnectionPoint{m.X, m.Y, route.All}
}

// Write draws the imported points in the box they were imported with, so
// a widened polygon stretches with its box.
func (p *polygon) Write(w *markup.Writer, parent style.Properties) {
	p.writePolygon(w, parent, p.view, p.points)
}

// shear returns the corners of r sheared by angle degrees from the
// vertical, fitted back into r.
func shear(r geom.Range, angle float64) []geom.Point {
	k := -math.Tan(math.Pi/2 - angle*math.Pi/180)
	poly := r.Polygon().Transform(geom.NewShearX(k))
	sheared := poly.Range()
	fit := geom.Identity().
		Translate(-sheared.Min.X, 0).
		Scale(r.Width()/geom.SafeDimension(sheared.Width()), 1).
		Translate(r.Min.X, 0)
	return poly.Transform(fit).Points()
}

// parallelogram is the flowchart input/output shape.
type parallelogram struct {
	object
	shearAngle float64
}

func (p *parallelogram) Import(n markup.Node, ctx *ImportContext) error {
	return p.importStandard(n, ctx, func(name string, attr markup.Node) bool {
		if name != "shear_angle" {
			return false
		}
		p.shearAngle = number(simpleValue(attr))
		return true
	})
}

// Write regenerates the outline from the current box, so a resize keeps
// the shear.
func (p *parallelogram) Write(w *markup.Writer, parent style.Properties) {
	p.writePolygon(w, parent, p.box(), shear(p.box(), p.shearAngle))
}

// diamond is the flowchart decision shape.
type diamond struct {
	object
}

func (d *diamond) Import(n markup.Node, ctx *ImportContext) error {
	d.cps = slices.Clone(diamondPoints)
	return d.importStandard(n, ctx, nil)
}

// ResizeIfNarrow grows a diamond so its text fits inside the rhombus,
// keeping the aspect ratio within 1:4 and 4:1.
func (d *diamond) ResizeIfNarrow(m FontMetrics, s *style.Interner) {
	if d.textStyle == "" {
		return
	}
	stroke := d.strokeWidth(s)
	needW := 2*d.padding + 2*stroke + m.AdvanceWidth(d.textStyle, d.text)
	needH := m.LineMetrics(d.textStyle).Height()*float64(d.lines()) + 2*d.padding + 2*stroke

	newW, newH := d.w, d.h
	if d.w <= 0 || needH > (d.w-needW)*d.h/d.w {
		grad := 4.0
		if d.h > 0 {
			grad = min(max(d.w/d.h, 0.25), 4)
		}
		newW = needW + needH*grad
		newH = needH + needW/grad
	}
	d.growWidth(newW)
	d.growHeight(newH)
}

func (d *diamond) Write(w *markup.Writer, parent style.Properties) {
	r := d.box()
	c := r.Center()
	pts := []geom.Point{
		{X: c.X, Y: r.Min.Y},
		{X: r.Max.X, Y: c.Y},
		{X: c.X, Y: r.Max.Y},
		{X: r.Min.X, Y: c.Y},
	}
	d.writePolygon(w, parent, r, pts)
}

// KAOS goal types.
const (
	goalSoft = iota
	goalHard
	goalRequirement
	goalAssumption
	goalObstacle
)

// Outlines of the path-drawn goal types, in arbitrary units.
const (
	softGoalPath   = "M 514.625 73 C 514.625,18.6 527.875,32.2 527.875,86.6 C 527.875,37.3 541.125,16.9 541.125,66.2 C 541.125,16.9 561,37.3 554.375,86.6 C 563.208,86.6 563.208,141 554.375,141 C 561,185.2 537.812,185.862 538.475,141.662 C 538.475,185.862 525.225,186.525 525.225,142.325 C 525.225,191.625 513.3,187.65 513.3,138.35 C 505.019,138.35 506.344,73 514.625,73Z"
	assumptionPath = "m59.9 0h908.1l-59.9 680.1h-908.1zm50.0-530.1 200.0-150.0z"
)

// kaosGoal is a goal of the KAOS requirements notation. Soft goals and
// assumptions are paths; the rest are parallelograms leaning by 85°.
type kaosGoal struct {
	object
	goalType int
	path     geom.PolyPolygon
}

func (k *kaosGoal) Import(n markup.Node, ctx *ImportContext) error {
	k.cps = slices.Clone(diamondPoints)
	err := k.importStandard(n, ctx, func(name string, attr markup.Node) bool {
		if name != "type" {
			return false
		}
		k.goalType = int(number(simpleValue(attr)))
		if k.goalType == goalRequirement || k.goalType == goalAssumption {
			k.styleProps["svg:stroke-width"] = "0.18cm"
		} else {
			k.styleProps["svg:stroke-width"] = "0.09cm"
		}
		return true
	})
	if err != nil {
		return err
	}

	var d string
	switch k.goalType {
	case goalSoft:
		d = softGoalPath
	case goalAssumption:
		d = assumptionPath
	default:
		return nil
	}
	pp, err := geom.ParsePath(d)
	if err != nil {
		ctx.malformed("goal outline", d, err)
		return nil
	}
	k.path = pp
	return nil
}

func (k *kaosGoal) Write(w *markup.Writer, parent style.Properties) {
	if len(k.path) > 0 {
		view, pp := geom.FitToOrigin(k.path)
		a := k.boxAttrs(parent)
		a["svg:viewBox"] = view.String()
		a["svg:d"] = geom.FormatPath(pp)
		k.writeElement(w, "draw:path", a)
		return
	}
	lean := 85.0
	if k.goalType == goalObstacle {
		lean = -85
	}
	k.writePolygon(w, parent, k.box(), shear(k.box(), lean))
}
