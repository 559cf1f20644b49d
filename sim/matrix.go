// Package sim is a state-vector simulator for small quantum circuits.
//
// Qubit q of an n-qubit register is stored at bit position n-1-q of a basis
// index, so qubit 0 is the leftmost character of a basis label such as "10".
package sim

import (
	"fmt"
	"math/cmplx"
	"strings"

	"github.com/go-faster/errors"
)

// Matrix is a dense complex matrix stored row-major in a flat slice.
type Matrix struct {
	r, c int
	data []complex128
}

// NewMatrix returns a rows×cols zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{r: rows, c: cols, data: make([]complex128, rows*cols)}
}

// NewMatrixFromRows copies a rectangular slice of rows into a Matrix.
func NewMatrixFromRows(rows [][]complex128) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.c {
			return nil, errors.Wrapf(ErrDimensionMismatch, "row %d has %d columns, want %d", i, len(row), m.c)
		}
		copy(m.data[i*m.c:(i+1)*m.c], row)
	}
	return m, nil
}

// Identity returns the n×n identity.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

func (m *Matrix) Rows() int { return m.r }

func (m *Matrix) Cols() int { return m.c }

func (m *Matrix) Shape() (rows, cols int) { return m.r, m.c }

// At returns the entry at (i, j). Indices are not bounds-checked beyond the
// slice access itself.
func (m *Matrix) At(i, j int) complex128 {
	return m.data[i*m.c+j]
}

func (m *Matrix) Set(i, j int, v complex128) {
	m.data[i*m.c+j] = v
}

func (m *Matrix) Clone() *Matrix {
	data := make([]complex128, len(m.data))
	copy(data, m.data)
	return &Matrix{r: m.r, c: m.c, data: data}
}

// Mul returns the product m·b.
func (m *Matrix) Mul(b *Matrix) (*Matrix, error) {
	if m.c != b.r {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%dx%d · %dx%d", m.r, m.c, b.r, b.c)
	}
	out := NewMatrix(m.r, b.c)
	for i := 0; i < m.r; i++ {
		row := out.data[i*b.c : (i+1)*b.c]
		for k := 0; k < m.c; k++ {
			a := m.data[i*m.c+k]
			// gate operators are mostly zeros
			if a == 0 {
				continue
			}
			bk := b.data[k*b.c : (k+1)*b.c]
			for j := range row {
				row[j] += a * bk[j]
			}
		}
	}
	return out, nil
}

// MulVec returns m·v.
func (m *Matrix) MulVec(v []complex128) ([]complex128, error) {
	if m.c != len(v) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%dx%d · %d", m.r, m.c, len(v))
	}
	out := make([]complex128, m.r)
	for i := 0; i < m.r; i++ {
		var sum complex128
		row := m.data[i*m.c : (i+1)*m.c]
		for k, a := range row {
			if a == 0 {
				continue
			}
			sum += a * v[k]
		}
		out[i] = sum
	}
	return out, nil
}

// Kronecker returns the tensor product a⊗b, of shape (ra·rb)×(ca·cb) with
// entry (i·rb+k, j·cb+l) = a(i,j)·b(k,l).
func Kronecker(a, b *Matrix) *Matrix {
	out := NewMatrix(a.r*b.r, a.c*b.c)
	for i := 0; i < a.r; i++ {
		for j := 0; j < a.c; j++ {
			aij := a.data[i*a.c+j]
			if aij == 0 {
				continue
			}
			for k := 0; k < b.r; k++ {
				for l := 0; l < b.c; l++ {
					out.data[(i*b.r+k)*out.c+j*b.c+l] = aij * b.data[k*b.c+l]
				}
			}
		}
	}
	return out
}

// EqualApprox reports whether m and b have the same shape and every entry
// differs by at most tol.
func (m *Matrix) EqualApprox(b *Matrix, tol float64) bool {
	if m.r != b.r || m.c != b.c {
		return false
	}
	for i, v := range m.data {
		if cmplx.Abs(v-b.data[i]) > tol {
			return false
		}
	}
	return true
}

func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.4g", m.data[i*m.c+j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
