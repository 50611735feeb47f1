package geom

import (
	"math"
	"strconv"
)

// Epsilon is the tolerance used by [NearlyEqual] and [NearlyZero].
const Epsilon = 1e-10

// Point is a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point        { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point        { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(f float64) Point    { return Point{p.X * f, p.Y * f} }
func (p Point) Mul(sx, sy float64) Point { return Point{p.X * sx, p.Y * sy} }

// Lerp interpolates linearly between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Manhattan returns |x| + |y|.
func (p Point) Manhattan() float64 { return math.Abs(p.X) + math.Abs(p.Y) }

// Len returns the Euclidean length of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return q.Sub(p).Len() }

// NearlyEqual reports whether p and q match within [Epsilon] per axis.
func (p Point) NearlyEqual(q Point) bool {
	return NearlyEqual(p.X, q.X) && NearlyEqual(p.Y, q.Y)
}

// String formats p as "x,y", the form used by point lists.
func (p Point) String() string {
	return FormatFloat(p.X) + "," + FormatFloat(p.Y)
}

// NearlyEqual compares a and b with a tolerance relative to their magnitude.
func NearlyEqual(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= Epsilon*scale
}

// NearlyZero reports whether |v| is below [Epsilon].
func NearlyZero(v float64) bool { return math.Abs(v) < Epsilon }

// FormatFloat prints v with at most six decimals and no trailing zeros.
// Negative zero prints as "0".
func FormatFloat(v float64) string {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Cm formats v as a centimetre length ("1.5cm").
func Cm(v float64) string { return FormatFloat(v) + "cm" }

// SafeDimension replaces a zero width or height by 0.001.
func SafeDimension(d float64) float64 {
	if d == 0 {
		return 0.001
	}
	return d
}

// SafeViewportDimension scales d by 10 for viewport use and clamps it to at least 1.
func SafeViewportDimension(d float64) float64 {
	d *= 10
	if d < 1 {
		return 1
	}
	return d
}
