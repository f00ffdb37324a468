package dense

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Matrix is a dense row-major float64 matrix.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix returns a zero matrix with the given dimensions.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// FromRows builds a matrix whose rows are copies of the given vectors.
// All vectors must have the same length.
func FromRows(rows []Vector) *Matrix {
	if len(rows) == 0 {
		return &Matrix{}
	}
	m := NewMatrix(len(rows), rows[0].Len())
	for i, r := range rows {
		if r.Len() != m.cols {
			panic(fmt.Sprintf("dense: row %d has length %d, want %d", i, r.Len(), m.cols))
		}
		copy(m.data[i*m.cols:(i+1)*m.cols], r)
	}
	return m
}

// WithBias builds a matrix from the given example vectors with a constant
// 1.0 bias column prepended as column 0. Row order is preserved.
func WithBias(rows []Vector) *Matrix {
	if len(rows) == 0 {
		return &Matrix{}
	}
	cols := rows[0].Len() + 1
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if r.Len() != cols-1 {
			panic(fmt.Sprintf("dense: row %d has length %d, want %d", i, r.Len(), cols-1))
		}
		m.data[i*cols] = 1.0
		copy(m.data[i*cols+1:(i+1)*cols], r)
	}
	return m
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// At returns the entry at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Set assigns the entry at row i, column j.
func (m *Matrix) Set(i, j int, v float64) {
	m.data[i*m.cols+j] = v
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) Vector {
	out := make(Vector, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out
}

// ColumnVector returns a copy of column j.
func (m *Matrix) ColumnVector(j int) Vector {
	out := make(Vector, m.rows)
	for i := 0; i < m.rows; i++ {
		out[i] = m.data[i*m.cols+j]
	}
	return out
}

// SetColumn assigns column j from v. v must have m.Rows() entries.
func (m *Matrix) SetColumn(j int, v Vector) {
	for i := 0; i < m.rows; i++ {
		m.data[i*m.cols+j] = v[i]
	}
}

// SetColumnOnes sets every entry of column j to 1.0.
func (m *Matrix) SetColumnOnes(j int) {
	for i := 0; i < m.rows; i++ {
		m.data[i*m.cols+j] = 1.0
	}
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Transpose returns mᵀ as a new matrix.
func (m *Matrix) Transpose() *Matrix {
	out := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[j*out.cols+i] = m.data[i*m.cols+j]
		}
	}
	return out
}

// Apply returns a new matrix with f applied to every entry.
func (m *Matrix) Apply(f func(float64) float64) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = f(v)
	}
	return out
}

// Sub returns m - o as a new matrix. Dimensions must match.
func (m *Matrix) Sub(o *Matrix) *Matrix {
	if m.rows != o.rows || m.cols != o.cols {
		panic(fmt.Sprintf("dense: dimension mismatch %dx%d vs %dx%d", m.rows, m.cols, o.rows, o.cols))
	}
	out := NewMatrix(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] - o.data[i]
	}
	return out
}

// Scale returns m * s as a new matrix.
func (m *Matrix) Scale(s float64) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = v * s
	}
	return out
}

// SquaredSum returns the sum of the squares of all entries.
func (m *Matrix) SquaredSum() float64 {
	sum := 0.0
	for _, v := range m.data {
		sum += v * v
	}
	return sum
}

// MulMode selects the matrix multiplication path.
type MulMode int

const (
	// MulSingle multiplies on the calling goroutine.
	MulSingle MulMode = iota
	// MulParallel partitions the result rows across a bounded group of
	// goroutines. Intended for the evaluator's inner multiplications when
	// batches are large and the engine itself runs few workers.
	MulParallel
)

// MatMul returns a·b using the given mode. a.Cols() must equal b.Rows().
func MatMul(a, b *Matrix, mode MulMode) *Matrix {
	if a.cols != b.rows {
		panic(fmt.Sprintf("dense: cannot multiply %dx%d by %dx%d", a.rows, a.cols, b.rows, b.cols))
	}
	out := NewMatrix(a.rows, b.cols)
	if mode == MulParallel && a.rows > 1 {
		mulRowsParallel(a, b, out)
		return out
	}
	mulRows(a, b, out, 0, a.rows)
	return out
}

// Mul returns a·b on the calling goroutine.
func (m *Matrix) Mul(o *Matrix) *Matrix {
	return MatMul(m, o, MulSingle)
}

func mulRows(a, b, out *Matrix, from, to int) {
	for i := from; i < to; i++ {
		arow := a.data[i*a.cols : (i+1)*a.cols]
		orow := out.data[i*out.cols : (i+1)*out.cols]
		for k, av := range arow {
			if av == 0 {
				continue
			}
			brow := b.data[k*b.cols : (k+1)*b.cols]
			for j, bv := range brow {
				orow[j] += av * bv
			}
		}
	}
}

func mulRowsParallel(a, b, out *Matrix) {
	workers := runtime.NumCPU()
	if workers > a.rows {
		workers = a.rows
	}
	chunk := (a.rows + workers - 1) / workers

	var g errgroup.Group
	for from := 0; from < a.rows; from += chunk {
		from := from
		to := from + chunk
		if to > a.rows {
			to = a.rows
		}
		g.Go(func() error {
			mulRows(a, b, out, from, to)
			return nil
		})
	}
	// Workers write disjoint row ranges and never fail.
	_ = g.Wait()
}
