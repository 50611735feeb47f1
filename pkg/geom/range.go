package geom

import "math"

// Range is an axis-aligned bounding box. The zero value is empty.
type Range struct {
	Min, Max Point
	set      bool
}

// NewRange returns the smallest range containing a and b.
func NewRange(a, b Point) Range {
	return Range{}.Expand(a).Expand(b)
}

// RangeOf returns the range of the given points.
func RangeOf(pts ...Point) Range {
	var r Range
	for _, p := range pts {
		r = r.Expand(p)
	}
	return r
}

// IsEmpty reports whether no point has been added to r.
func (r Range) IsEmpty() bool { return !r.set }

// Expand returns r grown to include p.
func (r Range) Expand(p Point) Range {
	if !r.set {
		return Range{Min: p, Max: p, set: true}
	}
	r.Min.X = math.Min(r.Min.X, p.X)
	r.Min.Y = math.Min(r.Min.Y, p.Y)
	r.Max.X = math.Max(r.Max.X, p.X)
	r.Max.Y = math.Max(r.Max.Y, p.Y)
	return r
}

// Union returns the smallest range containing r and o.
func (r Range) Union(o Range) Range {
	if !o.set {
		return r
	}
	return r.Expand(o.Min).Expand(o.Max)
}

// Width returns the horizontal extent, 0 for an empty range.
func (r Range) Width() float64 {
	if !r.set {
		return 0
	}
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent, 0 for an empty range.
func (r Range) Height() float64 {
	if !r.set {
		return 0
	}
	return r.Max.Y - r.Min.Y
}

// Center returns the midpoint of r.
func (r Range) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside r, borders included.
func (r Range) Contains(p Point) bool {
	return r.set && p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Corners returns the four corners clockwise from the top-left.
func (r Range) Corners() [4]Point {
	return [4]Point{
		r.Min,
		{r.Max.X, r.Min.Y},
		r.Max,
		{r.Min.X, r.Max.Y},
	}
}

// Polygon returns r as a closed four-point polygon.
func (r Range) Polygon() Polygon {
	c := r.Corners()
	return NewPolygon(true, c[:]...)
}

// Rect returns the range spanned by a rectangle at (x, y) of size w×h.
func Rect(x, y, w, h float64) Range {
	return NewRange(Point{x, y}, Point{x + w, y + h})
}
