// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Give elimination kernels direct row slices (Row) so inner loops stay bounds-check light.
//   - Enforce a numeric policy (optional rejection of NaN/Inf) from a single source of truth.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set/Row: O(1); Clone/Grid: O(r*c); SwapRows: O(c).

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt   = "At"
	ctxSet  = "Set"
	ctxSwap = "SwapRows"
)

// ---------- Formatting literals ----------

const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// The sentinel is preserved via %w.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//   - validateNaNInf enables NaN/Inf rejection in Set and NewDenseFrom.
type Dense struct {
	r, c           int       // row and column counts (> 0)
	data           []float64 // contiguous row-major storage (len == r*c)
	validateNaNInf bool      // numeric guard: reject NaN/Inf in Set when true
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrInvalidDimensions.
//   - Stage 2: allocate zero-filled buffer and apply the numeric policy.
//
// Errors:
//   - ErrInvalidDimensions (shape contract violation).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int, opts ...Option) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	o := gatherOptions(opts...)

	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		validateNaNInf: o.validateNaNInf,
	}, nil
}

// NewDenseFrom builds an r×c matrix from a row-major flat slice.
// The slice is copied; the caller keeps ownership of flat.
//
// Errors:
//   - ErrInvalidDimensions when rows or cols is not positive.
//   - ErrDimensionMismatch when len(flat) != rows*cols.
//   - ErrNaNInf (wrapped with coordinates) when the policy rejects a value.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDenseFrom(rows, cols int, flat []float64, opts ...Option) (*Dense, error) {
	m, err := NewDense(rows, cols, opts...)
	if err != nil {
		return nil, err
	}
	if len(flat) != rows*cols {
		return nil, fmt.Errorf("NewDenseFrom: want %d values, got %d: %w", rows*cols, len(flat), ErrDimensionMismatch)
	}
	if m.validateNaNInf {
		for k, v := range flat {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, denseErrorf(ctxSet, k/cols, k%cols, ErrNaNInf)
			}
		}
	}
	copy(m.data, flat)

	return m, nil
}

func (m *Dense) Rows() int { return m.r }

func (m *Dense) Cols() int { return m.c }

// Shape returns (rows, cols).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	// Row-major offset: i*c + j.
	return row*m.c + col, nil
}

func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v

	return nil
}

// Row returns row i as a slice sharing the backing buffer.
// Writes through the slice bypass the numeric policy; it exists for kernels
// that own the matrix. Panics like a slice index when i is out of range.
func (m *Dense) Row(i int) []float64 {
	base := i * m.c

	return m.data[base : base+m.c : base+m.c]
}

// RawData exposes the row-major backing buffer (len == Rows*Cols).
func (m *Dense) RawData() []float64 { return m.data }

// SwapRows exchanges rows i and j in place. Swapping a row with itself is a no-op.
func (m *Dense) SwapRows(i, j int) error {
	if i < 0 || i >= m.r || j < 0 || j >= m.r {
		return denseErrorf(ctxSwap, i, j, ErrOutOfRange)
	}
	if i == j {
		return nil
	}
	ri, rj := m.Row(i), m.Row(j)
	for k := range ri {
		ri[k], rj[k] = rj[k], ri[k]
	}

	return nil
}

func (m *Dense) Clone() Matrix {
	return m.clone()
}

// CloneDense is Clone without the interface conversion.
func (m *Dense) CloneDense() *Dense {
	return m.clone()
}

func (m *Dense) clone() *Dense {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{
		r:              m.r,
		c:              m.c,
		data:           cp,
		validateNaNInf: m.validateNaNInf, // preserve guard policy
	}
}

// Grid returns a nested [][]float64 copy of the matrix, one slice per row.
// Complexity: O(r*c).
func (m *Dense) Grid() [][]float64 {
	out := make([][]float64, m.r)
	for i := 0; i < m.r; i++ {
		row := make([]float64, m.c)
		copy(row, m.Row(i))
		out[i] = row
	}

	return out
}

func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}
