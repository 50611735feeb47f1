package route

import (
	"math"

	"github.com/matzehuels/diaconv/pkg/geom"
)

// straight is the tolerance below which an end is treated as directly in
// line with the start.
const straight = 1e-8

// The three generators below work in the normalized frame: the start sits
// at the origin facing North and to is the end position. The end faces
// North in parallel, South in opposite, and East or West in orthogonal.

func (r *Router) parallel(to geom.Point) ([]geom.Point, float64) {
	minDist := r.cfg.MinClearance

	if math.Abs(to.X) < straight && to.Y < -minDist {
		// The end sits straight ahead and faces the same way: run through.
		pts := []geom.Point{{}, {X: 0, Y: to.Y / 2}, to}
		return pts, r.badness(pts)
	}

	var pts []geom.Point
	switch {
	case math.Abs(to.X) > minDist:
		top := math.Min(-minDist, to.Y-minDist)
		pts = []geom.Point{{}, {X: 0, Y: top}, {X: to.X, Y: top}, to}
	case to.Y > 0:
		// close together, end below
		off := to.X + minDist*sign(to.X)
		bottom := to.Y - minDist
		pts = []geom.Point{
			{},
			{X: 0, Y: -minDist},
			{X: off, Y: -minDist},
			{X: off, Y: bottom},
			{X: to.X, Y: bottom},
			to,
		}
	default:
		off := -minDist * sign(to.X)
		top := to.Y - minDist
		pts = []geom.Point{
			{},
			{X: 0, Y: -minDist},
			{X: off, Y: -minDist},
			{X: off, Y: top},
			{X: to.X, Y: top},
			to,
		}
	}
	return pts, r.badness(pts)
}

func (r *Router) opposite(to geom.Point) ([]geom.Point, float64) {
	minDist := r.cfg.MinClearance
	extra := r.cfg.ExtraSegmentBadness

	if to.Y < -minDist {
		if math.Abs(to.X) < straight {
			return []geom.Point{{}, {}, to, to},
				r.lengthBadness(math.Abs(to.Y)) + 2*extra
		}
		mid := to.Y / 2
		return []geom.Point{{}, {X: 0, Y: mid}, {X: to.X, Y: mid}, to},
			2*r.lengthBadness(math.Abs(mid)) + 2*extra
	}

	off := -minDist * sign(to.X)
	if math.Abs(to.X) > 2*minDist {
		off = to.X / 2
	}
	pts := []geom.Point{
		{},
		{X: 0, Y: -minDist},
		{X: off, Y: -minDist},
		{X: off, Y: to.Y + minDist},
		{X: to.X, Y: to.Y + minDist},
		to,
	}
	return pts, r.badness(pts)
}

func (r *Router) orthogonal(to geom.Point, endDir Direction) ([]geom.Point, float64) {
	minDist := r.cfg.MinClearance
	dirmult := -1.0
	if endDir == West {
		dirmult = 1
	}
	ahead := dirmult * to.X

	if to.Y < -minDist && ahead > minDist {
		pts := []geom.Point{{}, {X: 0, Y: to.Y}, to}
		return pts, r.badness(pts)
	}

	var off float64
	switch {
	case to.Y >= -minDist && ahead > 2*minDist:
		off = to.X / 2
	case ahead > 0:
		off = -dirmult * minDist
	default:
		off = -dirmult * (minDist + math.Abs(to.X))
	}
	pts := []geom.Point{
		{},
		{X: 0, Y: -minDist},
		{X: off, Y: -minDist},
		{X: off, Y: to.Y},
		to,
	}
	return pts, r.badness(pts)
}

// badness charges every segment plus the length badness of its Manhattan
// length.
func (r *Router) badness(pts []geom.Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	b := float64(len(pts)-1) * r.cfg.ExtraSegmentBadness
	for i := 0; i+1 < len(pts); i++ {
		b += r.lengthBadness(pts[i+1].Sub(pts[i]).Manhattan())
	}
	return b
}

// lengthBadness is linear above the clearance and rises towards
// MaxSmallBadness as a segment shrinks to nothing.
func (r *Router) lengthBadness(length float64) float64 {
	minDist := r.cfg.MinClearance
	if length < minDist {
		return 2*r.cfg.MaxSmallBadness/(1+length/minDist) - r.cfg.MaxSmallBadness
	}
	return length - minDist
}

func sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	return -1
}
