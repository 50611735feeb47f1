package geom

import (
	"math"
	"testing"
)

func TestRange(t *testing.T) {
	var r Range
	if !r.IsEmpty() {
		t.Fatal("zero Range should be empty")
	}
	if r.Width() != 0 || r.Height() != 0 {
		t.Errorf("empty Width/Height = %v/%v, want 0/0", r.Width(), r.Height())
	}

	r = RangeOf(Pt(3, 4))
	if r.Width() != 0 || r.Height() != 0 {
		t.Errorf("single point Width/Height = %v/%v, want 0/0", r.Width(), r.Height())
	}

	r = r.Union(RangeOf(Pt(-1, 10)))
	if got, want := r.Center(), Pt(1, 7); got != want {
		t.Errorf("Center() = %v, want %v", got, want)
	}
	if !r.Contains(Pt(0, 5)) || r.Contains(Pt(4, 5)) {
		t.Error("Contains() disagrees with bounds")
	}
	if got := r.Union(Range{}); got != r {
		t.Errorf("Union(empty) = %v, want %v", got, r)
	}
}

func TestPolygonSegments(t *testing.T) {
	p := NewPolygon(true, Pt(0, 0), Pt(10, 0), Pt(10, 10))
	if got := p.SegmentCount(); got != 3 {
		t.Errorf("closed SegmentCount() = %d, want 3", got)
	}
	p.Closed = false
	if got := p.SegmentCount(); got != 2 {
		t.Errorf("open SegmentCount() = %d, want 2", got)
	}
	if p.HasCurves() {
		t.Error("HasCurves() = true for straight polygon")
	}

	mid := p.PointAt(0, 0.5)
	if !mid.NearlyEqual(Pt(5, 0)) {
		t.Errorf("PointAt(0, 0.5) = %v, want 5,0", mid)
	}
}

func TestPolygonCurveRange(t *testing.T) {
	var p Polygon
	p.LineTo(Pt(0, 0))
	p.CurveTo(Pt(0, 10), Pt(10, 10), Pt(10, 0))

	if !p.IsCurve(0) {
		t.Fatal("IsCurve(0) = false")
	}
	r := p.Range()
	// the curve peaks at t=0.5, y = 7.5
	if math.Abs(r.Max.Y-7.5) > 1e-9 {
		t.Errorf("Range().Max.Y = %v, want 7.5", r.Max.Y)
	}
	if got := len(p.Points()); got != 2 {
		t.Errorf("len(Points()) = %d, want 2", got)
	}
}

func TestNormalizeTo(t *testing.T) {
	r := Rect(10, 20, 4, 2)
	m := NormalizeTo(r, -5, 5)

	tests := []struct {
		in, want Point
	}{
		{Pt(10, 20), Pt(-5, -5)},
		{Pt(14, 22), Pt(5, 5)},
		{Pt(12, 21), Pt(0, 0)},
	}
	for _, tt := range tests {
		if got := m.Apply(tt.in); !got.NearlyEqual(tt.want) {
			t.Errorf("NormalizeTo(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSafeDimensions(t *testing.T) {
	tests := []struct {
		in, safe, viewport float64
	}{
		{0, 0.001, 1},
		{0.05, 0.05, 1},
		{2.5, 2.5, 25},
	}
	for _, tt := range tests {
		if got := SafeDimension(tt.in); got != tt.safe {
			t.Errorf("SafeDimension(%v) = %v, want %v", tt.in, got, tt.safe)
		}
		if got := SafeViewportDimension(tt.in); got != tt.viewport {
			t.Errorf("SafeViewportDimension(%v) = %v, want %v", tt.in, got, tt.viewport)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1.5, "1.5"},
		{-2, "-2"},
		{0.1 + 0.2, "0.3"},
		{1.0000004, "1"},
		{12.3456789, "12.345679"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Cm(0.25); got != "0.25cm" {
		t.Errorf("Cm(0.25) = %q, want %q", got, "0.25cm")
	}
}

func TestPointsViewport(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want Viewport
	}{
		{"span", []Point{Pt(1, 2), Pt(3, 2.5)}, Viewport{10, 20, 20, 5}},
		{"vertical", []Point{Pt(-1, 0), Pt(-1, 4)}, Viewport{-10, 0, 1, 40}},
		{"single point", []Point{Pt(0.5, 0.5)}, Viewport{5, 5, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointsViewport(tt.pts); got != tt.want {
				t.Errorf("PointsViewport(%v) = %+v, want %+v", tt.pts, got, tt.want)
			}
		})
	}
}
