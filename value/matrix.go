package value

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is a square affine matrix of dimension 2, 3, or 4, stored row-major
// in a fixed backing array. Transform nodes in the model tree carry 4x4
// matrices; 2x2 and 3x3 appear as plain values.
type Matrix struct {
	Dim int
	A   [16]float64
}

// Identity returns the identity matrix of the given dimension.
func Identity(dim int) *Matrix {
	m := &Matrix{Dim: dim}
	for i := 0; i < dim; i++ {
		m.A[i*dim+i] = 1
	}

	return m
}

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.A[i*m.Dim+j] }

// Set assigns the element at row i, column j.
func (m *Matrix) Set(i, j int, v float64) { m.A[i*m.Dim+j] = v }

// Mul returns the product m·n. Both operands must share a dimension.
func (m *Matrix) Mul(n *Matrix) *Matrix {
	if m.Dim != n.Dim {
		return nil
	}

	out := &Matrix{Dim: m.Dim}

	for i := 0; i < m.Dim; i++ {
		for j := 0; j < m.Dim; j++ {
			var sum float64
			for k := 0; k < m.Dim; k++ {
				sum += m.At(i, k) * n.At(k, j)
			}

			out.Set(i, j, sum)
		}
	}

	return out
}

// Equal reports element-wise equality within epsilon.
func (m *Matrix) Equal(n *Matrix) bool {
	if m == nil || n == nil {
		return m == n
	}

	if m.Dim != n.Dim {
		return false
	}

	for i := 0; i < m.Dim*m.Dim; i++ {
		if !nearlyEqual(m.A[i], n.A[i]) {
			return false
		}
	}

	return true
}

// String formats the matrix in row-major bracket notation.
func (m *Matrix) String() string {
	rows := make([]string, m.Dim)

	for i := 0; i < m.Dim; i++ {
		cols := make([]string, m.Dim)
		for j := 0; j < m.Dim; j++ {
			cols[j] = fmt.Sprintf("%g", m.At(i, j))
		}

		rows[i] = "[" + strings.Join(cols, ", ") + "]"
	}

	return "[" + strings.Join(rows, ", ") + "]"
}

// Translate builds a 4x4 translation matrix.
func Translate(x, y, z float64) *Matrix {
	m := Identity(4)
	m.Set(0, 3, x)
	m.Set(1, 3, y)
	m.Set(2, 3, z)

	return m
}

// Scale builds a 4x4 scale matrix.
func Scale(x, y, z float64) *Matrix {
	m := Identity(4)
	m.Set(0, 0, x)
	m.Set(1, 1, y)
	m.Set(2, 2, z)

	return m
}

// Rotate builds a 4x4 rotation matrix of angle radians about the named axis
// ("x", "y", or "z"). Unknown axes rotate about z.
func Rotate(angle float64, axis string) *Matrix {
	sin, cos := math.Sin(angle), math.Cos(angle)
	m := Identity(4)

	switch axis {
	case "x":
		m.Set(1, 1, cos)
		m.Set(1, 2, -sin)
		m.Set(2, 1, sin)
		m.Set(2, 2, cos)
	case "y":
		m.Set(0, 0, cos)
		m.Set(0, 2, sin)
		m.Set(2, 0, -sin)
		m.Set(2, 2, cos)
	default: // z
		m.Set(0, 0, cos)
		m.Set(0, 1, -sin)
		m.Set(1, 0, sin)
		m.Set(1, 1, cos)
	}

	return m
}

// Apply transforms a 3D point by a 4x4 affine matrix.
func (m *Matrix) Apply(x, y, z float64) (float64, float64, float64) {
	if m.Dim != 4 {
		return x, y, z
	}

	return m.At(0, 0)*x + m.At(0, 1)*y + m.At(0, 2)*z + m.At(0, 3),
		m.At(1, 0)*x + m.At(1, 1)*y + m.At(1, 2)*z + m.At(1, 3),
		m.At(2, 0)*x + m.At(2, 1)*y + m.At(2, 2)*z + m.At(2, 3)
}
