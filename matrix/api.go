// SPDX-License-Identifier: MIT
// Package matrix — public API facades.
//
// Purpose:
//   - Provide thin entry points for common constructors.
//   - Avoid logic duplication: each facade delegates to the canonical implementation.

package matrix

import "fmt"

// NewZeros returns a new zero-initialized *Dense of size rows×cols.
// It is a thin alias of NewDense with an intention-revealing name.
func NewZeros(rows, cols int) (*Dense, error) {
	return NewDense(rows, cols)
}

// NewIdentity returns I_n (n×n identity; ones on the diagonal, zeros elsewhere).
// Complexity: O(n^2) zeroing + O(n) diagonal writes.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// NewSquare builds an n×n matrix from n² row-major values.
// Shorthand for NewDenseFrom(n, n, flat, opts...).
func NewSquare(n int, flat []float64, opts ...Option) (*Dense, error) {
	return NewDenseFrom(n, n, flat, opts...)
}

// CloneMatrix returns a structural clone of m (same type if m is *Dense).
func CloneMatrix(m Matrix) Matrix {
	if m == nil {
		return nil
	}

	return m.Clone()
}

// AsDense returns a fresh *Dense copy of any Matrix.
// A *Dense input is cloned, so the result never aliases m.
// Complexity: O(r*c).
func AsDense(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}
	if d, ok := m.(*Dense); ok {
		return d.CloneDense(), nil
	}
	out, err := NewDense(m.Rows(), m.Cols(), WithNoValidateNaNInf())
	if err != nil {
		return nil, err
	}
	var (
		i, j int
		v    float64
	)
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, fmt.Errorf("AsDense: %w", err)
			}
			out.data[i*out.c+j] = v
		}
	}
	out.validateNaNInf = DefaultValidateNaNInf

	return out, nil
}
