// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic test fixtures and utilities for kernels.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matinv/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing the generic At/Set path in kernels.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err, "NewDense(%d,%d)", r, c)

	return m
}

// NewFilledDense builds an r×c *Dense from row-major vals.
func NewFilledDense(t testing.TB, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(t, err)

	return m
}

// RandFilledDense returns an r×c matrix with values in [-1, 1) from a fixed seed.
func RandFilledDense(t testing.TB, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	vals := make([]float64, r*c)
	for i := range vals {
		vals[i] = rng.Float64()*2 - 1
	}

	return NewFilledDense(t, r, c, vals)
}

// MustAt reads (i,j) or fails the test.
func MustAt(t testing.TB, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err, "At(%d,%d)", i, j)

	return v
}

// CompareExact asserts m equals want cell by cell.
func CompareExact(t testing.TB, want [][]float64, m matrix.Matrix) {
	t.Helper()
	require.Equal(t, len(want), m.Rows(), "rows")
	for i := range want {
		require.Equal(t, len(want[i]), m.Cols(), "cols")
		for j := range want[i] {
			require.Equal(t, want[i][j], MustAt(t, m, i, j), "at [%d,%d]", i, j)
		}
	}
}

// CompareClose asserts |a-b| <= atol + rtol*|b| for every cell.
func CompareClose(t testing.TB, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	require.Equal(t, a.Rows(), b.Rows())
	require.Equal(t, a.Cols(), b.Cols())
	var av, bv float64
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			av, bv = MustAt(t, a, i, j), MustAt(t, b, i, j)
			require.LessOrEqual(t, math.Abs(av-bv), atol+rtol*math.Abs(bv), "at [%d,%d]: %g vs %g", i, j, av, bv)
		}
	}
}
