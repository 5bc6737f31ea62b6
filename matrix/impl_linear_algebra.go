// SPDX-License-Identifier: MIT
// Package matrix provides the dense kernels used to check inversion results:
// multiplication, transpose, scale (max |a_ij|) and approximate comparison.
//
// Notes:
//   - All kernels validate through validators.go and wrap failures via matrixErrorf.
//   - *Dense inputs take a flat-slice fast path; other Matrix values use At/Set.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// ZeroSum is the initial value for dot-product accumulators.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opMaxAbs    = "MaxAbs"
	opAllClose  = "AllClose"
	opIdentity  = "IsIdentity"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul performs standard matrix multiplication C = A × B (no aliasing).
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: If A and B are *Dense, use i→k→j with row-major strides and skip zeros;
//     otherwise use i→j→k with a fixed order.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k int
		av, bv  float64
		sum     float64
	)
	da, okA := a.(*Dense)
	db, okB := b.(*Dense)
	if okA && okB {
		var rowA, rowR []float64
		for i = 0; i < aRows; i++ {
			rowA = da.Row(i)
			rowR = res.Row(i)
			for k = 0; k < aCols; k++ {
				av = rowA[k]
				if av == 0 {
					continue // skip zero for performance
				}
				for j, bv = range db.Row(k) {
					rowR[j] += av * bv
				}
			}
		}

		return res, nil
	}

	// Fallback: generic interface triple-loop (i-j-k)
	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			sum = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				if av == 0 {
					continue
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				sum += av * bv
			}
			res.data[i*bCols+j] = sum
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// The input is never mutated. Complexity: O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	r, c := m.Rows(), m.Cols()
	res, err := NewDense(c, r, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var (
		i, j int
		v    float64
	)
	if d, ok := m.(*Dense); ok {
		for i = 0; i < r; i++ {
			for j, v = range d.Row(i) {
				res.data[j*r+i] = v
			}
		}
		res.validateNaNInf = d.validateNaNInf

		return res, nil
	}
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, err)
			}
			res.data[j*r+i] = v
		}
	}

	return res, nil
}

// MaxAbs returns max |m[i,j]|, the scale used for relative tolerances.
// Complexity: O(r*c).
func MaxAbs(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opMaxAbs, err)
	}
	var best float64
	if d, ok := m.(*Dense); ok {
		for _, v := range d.data {
			if a := math.Abs(v); a > best {
				best = a
			}
		}

		return best, nil
	}
	var (
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return 0, matrixErrorf(opMaxAbs, err)
			}
			if a := math.Abs(v); a > best {
				best = a
			}
		}
	}

	return best, nil
}

// AllClose reports whether a and b have the same shape and every pair of
// elements is within atol absolutely or rtol relatively.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: O(r*c).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	da, okA := a.(*Dense)
	db, okB := b.(*Dense)
	if okA && okB {
		for k, av := range da.data {
			if !scalar.EqualWithinAbsOrRel(av, db.data[k], atol, rtol) {
				return false, nil
			}
		}

		return true, nil
	}
	var (
		i, j   int
		av, bv float64
		err    error
	)
	for i = 0; i < a.Rows(); i++ {
		for j = 0; j < a.Cols(); j++ {
			if av, err = a.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if !scalar.EqualWithinAbsOrRel(av, bv, atol, rtol) {
				return false, nil
			}
		}
	}

	return true, nil
}

// IsIdentity reports whether m is square and within eps (WithEpsilon) of I.
// Complexity: O(n^2).
func IsIdentity(m Matrix, opts ...Option) (bool, error) {
	if err := ValidateSquare(m); err != nil {
		return false, matrixErrorf(opIdentity, err)
	}
	eps := gatherOptions(opts...).eps
	n := m.Rows()
	var (
		i, j int
		v    float64
		err  error
		want float64
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if v, err = m.At(i, j); err != nil {
				return false, matrixErrorf(opIdentity, err)
			}
			want = 0
			if i == j {
				want = 1
			}
			if math.Abs(v-want) > eps {
				return false, nil
			}
		}
	}

	return true, nil
}
