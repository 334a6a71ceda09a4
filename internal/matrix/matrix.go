// Package matrix implements the 2D affine transform math of spec §4.5 (C9).
package matrix

import (
	"math"

	"golang.org/x/image/math/f64"

	"pdlvm/internal/perrors"
)

// Matrix is the 6-tuple (a,b,c,d,tx,ty) representing the affine map
// [x' y' 1] = [x y 1] . [[a b 0][c d 0][tx ty 1]].
type Matrix struct {
	A, B, C, D, Tx, Ty float64
}

// Identity returns the identity matrix.
func Identity() Matrix { return Matrix{A: 1, D: 1} }

// New builds a Matrix from six components in PostScript order (a b c d tx ty).
func New(a, b, c, d, tx, ty float64) Matrix { return Matrix{a, b, c, d, tx, ty} }

// Array returns the six components in PostScript order, for `currentmatrix`.
func (m Matrix) Array() [6]float64 { return [6]float64{m.A, m.B, m.C, m.D, m.Tx, m.Ty} }

// Aff3 converts to golang.org/x/image/math/f64.Aff3, whose row-major layout
// is (a c tx, b d ty).
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{m.A, m.C, m.Tx, m.B, m.D, m.Ty}
}

// Multiply composes m1 followed by m2 (apply m1, then m2), matching the
// PostScript `concat`/matrix-multiply convention of row-vector times matrix.
func Multiply(m1, m2 Matrix) Matrix {
	return Matrix{
		A:  m1.A*m2.A + m1.B*m2.C,
		B:  m1.A*m2.B + m1.B*m2.D,
		C:  m1.C*m2.A + m1.D*m2.C,
		D:  m1.C*m2.B + m1.D*m2.D,
		Tx: m1.Tx*m2.A + m1.Ty*m2.C + m2.Tx,
		Ty: m1.Tx*m2.B + m1.Ty*m2.D + m2.Ty,
	}
}

// Determinant returns ad - bc.
func (m Matrix) Determinant() float64 { return m.A*m.D - m.B*m.C }

// Inverse returns the inverse transform, or undefinedresult if singular
// (spec §4.5).
func (m Matrix) Inverse() (Matrix, error) {
	det := m.Determinant()
	if det == 0 {
		return Matrix{}, perrors.New(perrors.UndefinedResult, "matrix is not invertible")
	}
	inv := 1 / det
	a := m.D * inv
	b := -m.B * inv
	c := -m.C * inv
	d := m.A * inv
	tx := -(m.Tx*a + m.Ty*c)
	ty := -(m.Tx*b + m.Ty*d)
	return Matrix{a, b, c, d, tx, ty}, nil
}

// Translate returns the translation-by-(tx,ty) matrix.
func Translate(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, Tx: tx, Ty: ty} }

// Scale returns the scale-by-(sx,sy) matrix.
func Scale(sx, sy float64) Matrix { return Matrix{A: sx, D: sy} }

// Rotate returns the rotate-by-theta (degrees) matrix.
func Rotate(thetaDeg float64) Matrix {
	r := thetaDeg * math.Pi / 180
	sin, cos := math.Sin(r), math.Cos(r)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// Apply maps point (x,y) through m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return x*m.A + y*m.C + m.Tx, x*m.B + y*m.D + m.Ty
}

// ApplyDelta maps vector (dx,dy) through m, ignoring translation.
func (m Matrix) ApplyDelta(dx, dy float64) (float64, float64) {
	return dx*m.A + dy*m.C, dx*m.B + dy*m.D
}
