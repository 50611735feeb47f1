package shape

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/style"
)

// connectorScale is the factor draw:points of a standard connector are
// written at.
const connectorScale = 1000

// zigzag is an orthogonal connector. When the router reproduces Dia's
// layout it becomes an ODF standard connector, which drawing applications
// re-route as the attached shapes move; otherwise it stays a polyline.
type zigzag struct {
	object

	// orth holds the corner points in diagram coordinates.
	orth      []geom.Point
	autoRoute bool
	routed    bool
	skew      float64
	logger    *log.Logger
}

func (z *zigzag) Import(n markup.Node, ctx *ImportContext) error {
	z.logger = ctx.logger()
	err := z.importStandard(n, ctx, func(name string, attr markup.Node) bool {
		switch name {
		case "orth_points":
			v := simpleValue(attr)
			pts, err := geom.ParsePoints(v)
			if err != nil {
				ctx.malformed(name, v, err)
				return true
			}
			z.orth = pts
		case "autorouting":
			z.autoRoute = simpleValue(attr) == "true"
		default:
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if len(z.orth) < 2 {
		ctx.malformed("orth_points", "", errNoPoints)
	}
	return nil
}

// Routed reports whether the connector is written as a standard
// connector.
func (z *zigzag) Routed() bool { return z.routed }

// AdjustConnections moves the ends onto the glue points of the attached
// shapes, dragging the neighbouring corners along, and checks whether the
// router lays the connector out the same way.
func (z *zigzag) AdjustConnections(lookup Lookup, r *route.Router) {
	if len(z.orth) < 2 {
		return
	}
	last := len(z.orth) - 1

	// An attached end stays on its glue point while the other end snaps.
	keep := -1
	if z.to != "" && z.toGlue >= 0 {
		keep = last
	}
	startDir, snapped := z.snapEnd(lookup, z.from, z.fromGlue, 0, keep)
	keep = -1
	if snapped {
		keep = 0
	}
	endDir, _ := z.snapEnd(lookup, z.to, z.toGlue, last, keep)

	z.routed = false
	if len(z.orth) != 4 || r == nil {
		z.degrade("needs exactly three segments")
		return
	}
	l, err := r.Route(
		route.Anchor{Pos: z.orth[0], Dir: startDir},
		route.Anchor{Pos: z.orth[last], Dir: endDir},
		len(z.orth),
	)
	if err != nil {
		z.degrade(err.Error())
		return
	}
	b := l.Points
	if b[1].X != b[2].X && b[1].Y != b[2].Y {
		z.degrade("middle segment is not axis aligned")
		return
	}

	var shift geom.Point
	switch {
	case b[1].X != b[2].X:
		z.skew = z.orth[2].Y - b[2].Y
		shift.Y = z.skew
	case b[1].Y != b[2].Y:
		z.skew = z.orth[2].X - b[2].X
		shift.X = z.skew
	default:
		z.skew = 0
	}
	if !axisAligned(z.orth) {
		// Snapping bent a segment; write the routed path with Dia's
		// middle segment instead.
		z.orth = []geom.Point{b[0], b[1].Add(shift), b[2].Add(shift), b[3]}
	}
	z.routed = true
}

// snapEnd moves point i onto glue point glue of the shape with the given
// id and returns the directions the connector may leave it in. Point keep
// is never moved. snapped reports whether a glue point was found.
func (z *zigzag) snapEnd(lookup Lookup, id string, glue, i, keep int) (dir route.Direction, snapped bool) {
	if id == "" || glue < 0 || lookup == nil {
		return route.All, false
	}
	s, ok := lookup(id)
	if !ok {
		z.logger.Debug("connector end not found", "connector", z.id, "shape", id)
		return route.All, false
	}
	p, ok := s.SnapConnectionPoint(glue)
	if ok {
		z.propagate(z.orth[i], p, keep)
	}
	return s.ConnectionDirection(glue), ok
}

// propagate moves every coordinate equal to one of from onto to, keeping
// the segments through the moved end axis aligned. Point keep is left
// alone.
func (z *zigzag) propagate(from, to geom.Point, keep int) {
	for i, p := range z.orth {
		if i == keep {
			continue
		}
		if p.X == from.X {
			z.orth[i].X = to.X
		}
		if p.Y == from.Y {
			z.orth[i].Y = to.Y
		}
	}
}

// axisAligned reports whether every segment of pts is horizontal or
// vertical.
func axisAligned(pts []geom.Point) bool {
	for i := 1; i < len(pts); i++ {
		if pts[i].X != pts[i-1].X && pts[i].Y != pts[i-1].Y {
			return false
		}
	}
	return true
}

func (z *zigzag) degrade(reason string) {
	z.logger.Info("zigzag line degraded to polyline",
		"id", z.id, "points", len(z.orth), "autorouting", z.autoRoute, "reason", reason)
}

// page returns the corner points in page coordinates.
func (z *zigzag) page() []geom.Point {
	out := make([]geom.Point, len(z.orth))
	for i, p := range z.orth {
		out[i] = p.Add(z.margin)
	}
	return out
}

func (z *zigzag) BoundingBox() geom.Range { return geom.RangeOf(z.page()...) }

func (z *zigzag) Write(w *markup.Writer, parent style.Properties) {
	if len(z.orth) < 2 {
		return
	}
	pts := z.page()
	if !z.routed {
		z.writePolyline(w, parent, pts)
		return
	}

	a := z.shapeAttrs(parent)
	a["draw:type"] = "standard"
	a["draw:line-skew"] = geom.Cm(z.skew)
	setLine(a, pts[0], pts[len(pts)-1])
	scaled := geom.ScalePoints(pts, connectorScale)
	a["draw:points"] = geom.FormatPoints(scaled)
	a["svg:d"] = geom.FormatPath(geom.PolyPolygon{geom.NewPolygon(false, scaled...)})
	z.connectionAttrs(a)
	w.Start("draw:connector", a)
	z.writeText(w)
	w.End("draw:connector")
}
