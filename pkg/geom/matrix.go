package geom

import "math"

// Matrix is a 3×3 homogeneous transform.
//
// Most matrices built by the converter are affine, so the last row is kept
// implicit as (0, 0, 1) until a projective value is stored into it. The zero
// Matrix is not the identity; start from [Identity].
type Matrix struct {
	rows       [3][3]float64
	projective bool
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{rows: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// NewMatrix builds a matrix from explicit rows.
func NewMatrix(rows [3][3]float64) Matrix {
	m := Matrix{rows: rows}
	m.normalize()
	return m
}

// NewTranslate returns a translation by (dx, dy).
func NewTranslate(dx, dy float64) Matrix {
	m := Identity()
	m.rows[0][2] = dx
	m.rows[1][2] = dy
	return m
}

// NewScale returns a scale about the origin.
func NewScale(sx, sy float64) Matrix {
	m := Identity()
	m.rows[0][0] = sx
	m.rows[1][1] = sy
	return m
}

// NewShearX returns a horizontal shear: x' = x + k·y.
func NewShearX(k float64) Matrix {
	m := Identity()
	m.rows[0][1] = k
	return m
}

// NewShearY returns a vertical shear: y' = y + k·x.
func NewShearY(k float64) Matrix {
	m := Identity()
	m.rows[1][0] = k
	return m
}

// NewRotate returns a rotation by theta radians about the origin.
func NewRotate(theta float64) Matrix {
	sin, cos := math.Sincos(theta)
	m := Identity()
	m.rows[0][0], m.rows[0][1] = cos, -sin
	m.rows[1][0], m.rows[1][1] = sin, cos
	return m
}

// Get returns the element at row r, column c.
func (m Matrix) Get(r, c int) float64 {
	if r == 2 && !m.projective {
		if c == 2 {
			return 1
		}
		return 0
	}
	return m.rows[r][c]
}

// Set returns a copy of m with the element at row r, column c replaced.
func (m Matrix) Set(r, c int, v float64) Matrix {
	if !m.projective {
		m.rows[2] = [3]float64{0, 0, 1}
	}
	m.rows[r][c] = v
	m.normalize()
	return m
}

// IsAffine reports whether the last row is the default (0, 0, 1).
func (m Matrix) IsAffine() bool { return !m.projective }

// IsIdentity reports whether m is the identity within [Epsilon].
func (m Matrix) IsIdentity() bool {
	id := Identity()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if !NearlyEqual(m.Get(r, c), id.rows[r][c]) {
				return false
			}
		}
	}
	return true
}

// Mul returns m·n: the transform that applies n first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m.Get(r, k) * n.Get(k, c)
			}
			out.rows[r][c] = sum
		}
	}
	out.normalize()
	return out
}

// Then returns the transform that applies m first, then n.
func (m Matrix) Then(n Matrix) Matrix { return n.Mul(m) }

// Translate appends a translation after m.
func (m Matrix) Translate(dx, dy float64) Matrix { return m.Then(NewTranslate(dx, dy)) }

// Scale appends a scale after m.
func (m Matrix) Scale(sx, sy float64) Matrix { return m.Then(NewScale(sx, sy)) }

// ShearX appends a horizontal shear after m.
func (m Matrix) ShearX(k float64) Matrix { return m.Then(NewShearX(k)) }

// ShearY appends a vertical shear after m.
func (m Matrix) ShearY(k float64) Matrix { return m.Then(NewShearY(k)) }

// Rotate appends a rotation after m.
func (m Matrix) Rotate(theta float64) Matrix { return m.Then(NewRotate(theta)) }

// Determinant returns the determinant of the full 3×3 matrix.
func (m Matrix) Determinant() float64 {
	a := func(r, c int) float64 { return m.Get(r, c) }
	return a(0, 0)*(a(1, 1)*a(2, 2)-a(1, 2)*a(2, 1)) -
		a(0, 1)*(a(1, 0)*a(2, 2)-a(1, 2)*a(2, 0)) +
		a(0, 2)*(a(1, 0)*a(2, 1)-a(1, 1)*a(2, 0))
}

// Invert returns the inverse of m. The second result is false when m is
// singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Determinant()
	if NearlyZero(det) {
		return Matrix{}, false
	}
	a := func(r, c int) float64 { return m.Get(r, c) }
	var inv Matrix
	inv.rows[0][0] = (a(1, 1)*a(2, 2) - a(1, 2)*a(2, 1)) / det
	inv.rows[0][1] = (a(0, 2)*a(2, 1) - a(0, 1)*a(2, 2)) / det
	inv.rows[0][2] = (a(0, 1)*a(1, 2) - a(0, 2)*a(1, 1)) / det
	inv.rows[1][0] = (a(1, 2)*a(2, 0) - a(1, 0)*a(2, 2)) / det
	inv.rows[1][1] = (a(0, 0)*a(2, 2) - a(0, 2)*a(2, 0)) / det
	inv.rows[1][2] = (a(0, 2)*a(1, 0) - a(0, 0)*a(1, 2)) / det
	inv.rows[2][0] = (a(1, 0)*a(2, 1) - a(1, 1)*a(2, 0)) / det
	inv.rows[2][1] = (a(0, 1)*a(2, 0) - a(0, 0)*a(2, 1)) / det
	inv.rows[2][2] = (a(0, 0)*a(1, 1) - a(0, 1)*a(1, 0)) / det
	inv.normalize()
	return inv, true
}

// Apply transforms p. For projective matrices the result is divided by the
// homogeneous coordinate w, unless w is nearly 0 or nearly 1.
func (m Matrix) Apply(p Point) Point {
	x := m.rows[0][0]*p.X + m.rows[0][1]*p.Y + m.rows[0][2]
	y := m.rows[1][0]*p.X + m.rows[1][1]*p.Y + m.rows[1][2]
	if !m.projective {
		return Point{x, y}
	}
	w := m.rows[2][0]*p.X + m.rows[2][1]*p.Y + m.rows[2][2]
	if !NearlyZero(w) && !NearlyEqual(w, 1) {
		x /= w
		y /= w
	}
	return Point{x, y}
}

func (m *Matrix) normalize() {
	last := m.rows[2]
	if NearlyZero(last[0]) && NearlyZero(last[1]) && NearlyEqual(last[2], 1) {
		m.rows[2] = [3]float64{0, 0, 1}
		m.projective = false
		return
	}
	m.projective = true
}
