package geom

import "math"

// CubicBezier is a single cubic segment. A straight line is represented with
// handles at one and two thirds of the chord, so At stays linear in t.
type CubicBezier struct {
	Start, C1, C2, End Point
}

// Line returns the straight segment from a to b as a cubic.
func Line(a, b Point) CubicBezier {
	return CubicBezier{
		Start: a,
		C1:    a.Lerp(b, 1.0/3),
		C2:    a.Lerp(b, 2.0/3),
		End:   b,
	}
}

// At evaluates the standard cubic blend at t.
func (c CubicBezier) At(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Point{
		X: a*c.Start.X + b*c.C1.X + d*c.C2.X + e*c.End.X,
		Y: a*c.Start.Y + b*c.C1.Y + d*c.C2.Y + e*c.End.Y,
	}
}

// Transform applies m to all four control points.
func (c CubicBezier) Transform(m Matrix) CubicBezier {
	return CubicBezier{
		Start: m.Apply(c.Start),
		C1:    m.Apply(c.C1),
		C2:    m.Apply(c.C2),
		End:   m.Apply(c.End),
	}
}

// Range returns the tight bounding box of the curve.
func (c CubicBezier) Range() Range {
	r := RangeOf(c.Start, c.End)
	for _, t := range extrema(c.Start.X, c.C1.X, c.C2.X, c.End.X) {
		r = r.Expand(c.At(t))
	}
	for _, t := range extrema(c.Start.Y, c.C1.Y, c.C2.Y, c.End.Y) {
		r = r.Expand(c.At(t))
	}
	return r
}

// extrema returns the parameters in (0,1) where the derivative of a
// one-dimensional cubic vanishes.
func extrema(p0, p1, p2, p3 float64) []float64 {
	a := -p0 + 3*p1 - 3*p2 + p3
	b := 2 * (p0 - 2*p1 + p2)
	c := p1 - p0

	var roots []float64
	keep := func(t float64) {
		if t > 0 && t < 1 {
			roots = append(roots, t)
		}
	}
	if NearlyZero(a) {
		if !NearlyZero(b) {
			keep(-c / b)
		}
		return roots
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return roots
	}
	sq := math.Sqrt(disc)
	keep((-b + sq) / (2 * a))
	keep((-b - sq) / (2 * a))
	return roots
}
