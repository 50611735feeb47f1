package geom

// Vertex is one entry of a polygon. Control vertices are Bézier handles; two
// of them between on-curve vertices form a cubic segment.
type Vertex struct {
	Point
	Control bool
}

// Polygon is an ordered point sequence with optional Bézier handles.
type Polygon struct {
	Vertices []Vertex
	Closed   bool
}

// NewPolygon returns a polygon of straight segments through pts.
func NewPolygon(closed bool, pts ...Point) Polygon {
	p := Polygon{Closed: closed, Vertices: make([]Vertex, 0, len(pts))}
	for _, pt := range pts {
		p.Vertices = append(p.Vertices, Vertex{Point: pt})
	}
	return p
}

// LineTo appends an on-curve vertex.
func (p *Polygon) LineTo(pt Point) {
	p.Vertices = append(p.Vertices, Vertex{Point: pt})
}

// CurveTo appends a cubic segment ending at end.
func (p *Polygon) CurveTo(c1, c2, end Point) {
	p.Vertices = append(p.Vertices,
		Vertex{Point: c1, Control: true},
		Vertex{Point: c2, Control: true},
		Vertex{Point: end},
	)
}

// Points returns the on-curve vertices.
func (p Polygon) Points() []Point {
	var out []Point
	for _, v := range p.Vertices {
		if !v.Control {
			out = append(out, v.Point)
		}
	}
	return out
}

// HasCurves reports whether any vertex is a Bézier handle.
func (p Polygon) HasCurves() bool {
	for _, v := range p.Vertices {
		if v.Control {
			return true
		}
	}
	return false
}

func (p Polygon) onCurve() []int {
	var idx []int
	for i, v := range p.Vertices {
		if !v.Control {
			idx = append(idx, i)
		}
	}
	return idx
}

// SegmentCount returns the number of segments, including the closing one.
func (p Polygon) SegmentCount() int {
	n := len(p.onCurve())
	switch {
	case n == 0:
		return 0
	case p.Closed:
		return n
	default:
		return n - 1
	}
}

// IsCurve reports whether segment i has Bézier handles.
func (p Polygon) IsCurve(i int) bool {
	_, ok := p.segment(i)
	return ok
}

// Segment returns segment i as a cubic. Straight segments get handles on
// the chord. Out-of-range indices yield the zero curve.
func (p Polygon) Segment(i int) CubicBezier {
	c, _ := p.segment(i)
	return c
}

func (p Polygon) segment(i int) (CubicBezier, bool) {
	on := p.onCurve()
	if i < 0 || i >= p.SegmentCount() {
		return CubicBezier{}, false
	}
	from := on[i]
	var to int
	var between []Vertex
	if i+1 < len(on) {
		to = on[i+1]
		between = p.Vertices[from+1 : to]
	} else {
		to = on[0]
		between = append(append([]Vertex{}, p.Vertices[from+1:]...), p.Vertices[:to]...)
	}
	start, end := p.Vertices[from].Point, p.Vertices[to].Point
	if len(between) >= 2 {
		return CubicBezier{Start: start, C1: between[0].Point, C2: between[len(between)-1].Point, End: end}, true
	}
	return Line(start, end), false
}

// PointAt evaluates segment i at parameter t.
func (p Polygon) PointAt(i int, t float64) Point {
	return p.Segment(i).At(t)
}

// Range returns the bounding box of the outline. A single point yields a
// zero-size range.
func (p Polygon) Range() Range {
	n := p.SegmentCount()
	if n == 0 {
		var r Range
		for _, v := range p.Vertices {
			r = r.Expand(v.Point)
		}
		return r
	}
	var r Range
	for i := 0; i < n; i++ {
		r = r.Union(p.Segment(i).Range())
	}
	return r
}

// Transform returns a copy with m applied to every vertex, handles included.
func (p Polygon) Transform(m Matrix) Polygon {
	out := Polygon{Closed: p.Closed, Vertices: make([]Vertex, len(p.Vertices))}
	for i, v := range p.Vertices {
		out.Vertices[i] = Vertex{Point: m.Apply(v.Point), Control: v.Control}
	}
	return out
}

// PolyPolygon is an ordered list of polygons.
type PolyPolygon []Polygon

// Range returns the union of the member ranges.
func (pp PolyPolygon) Range() Range {
	var r Range
	for _, p := range pp {
		r = r.Union(p.Range())
	}
	return r
}

// Transform applies m to every member.
func (pp PolyPolygon) Transform(m Matrix) PolyPolygon {
	out := make(PolyPolygon, len(pp))
	for i, p := range pp {
		out[i] = p.Transform(m)
	}
	return out
}

// NormalizeTo returns the transform that maps r onto the box
// [lo,hi]×[lo,hi]. Zero extents are clamped with [SafeDimension].
func NormalizeTo(r Range, lo, hi float64) Matrix {
	span := hi - lo
	return Identity().
		Translate(-r.Min.X, -r.Min.Y).
		Scale(span/SafeDimension(r.Width()), span/SafeDimension(r.Height())).
		Translate(lo, lo)
}
