package geom

// ViewportScale is the factor between centimetre geometry and viewport
// units. Drawing applications round coarse viewports, so coordinates are
// written at ten times their size.
const ViewportScale = 10

// Viewport is an SVG viewBox.
type Viewport struct {
	X, Y, Width, Height float64
}

// String formats v as "x y width height".
func (v Viewport) String() string {
	return FormatFloat(v.X) + " " + FormatFloat(v.Y) + " " + FormatFloat(v.Width) + " " + FormatFloat(v.Height)
}

// FitToOrigin moves pp so its range starts at the origin and scales it by
// [ViewportScale]. The returned viewport covers the result.
func FitToOrigin(pp PolyPolygon) (Viewport, PolyPolygon) {
	r := pp.Range()
	m := Identity().Translate(-r.Min.X, -r.Min.Y).Scale(ViewportScale, ViewportScale)
	return Viewport{
		Width:  SafeViewportDimension(r.Width()),
		Height: SafeViewportDimension(r.Height()),
	}, pp.Transform(m)
}

// RectViewport returns the viewport of a box at (x, y) of size w×h in
// viewport units.
func RectViewport(x, y, w, h float64) Viewport {
	return Viewport{x * ViewportScale, y * ViewportScale, w * ViewportScale, h * ViewportScale}
}

// PointsViewport returns the viewport, in viewport units, spanned by pts
// without moving them. Zero extents are clamped with
// [SafeViewportDimension].
func PointsViewport(pts []Point) Viewport {
	r := RangeOf(pts...)
	return Viewport{
		X:      r.Min.X * ViewportScale,
		Y:      r.Min.Y * ViewportScale,
		Width:  SafeViewportDimension(r.Width()),
		Height: SafeViewportDimension(r.Height()),
	}
}

// ScalePoints returns pts multiplied by f.
func ScalePoints(pts []Point, f float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = p.Scale(f)
	}
	return out
}
