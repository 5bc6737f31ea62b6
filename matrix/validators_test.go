// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matinv/matrix"
)

func TestValidateNotNil(t *testing.T) {
	require.ErrorIs(t, matrix.ValidateNotNil(nil), matrix.ErrNilMatrix)

	var typedNil *matrix.Dense
	require.ErrorIs(t, matrix.ValidateNotNil(typedNil), matrix.ErrNilMatrix)

	require.NoError(t, matrix.ValidateNotNil(MustDense(t, 1, 1)))
}

func TestValidateSquare(t *testing.T) {
	require.NoError(t, matrix.ValidateSquare(MustDense(t, 3, 3)))
	require.ErrorIs(t, matrix.ValidateSquare(MustDense(t, 3, 2)), matrix.ErrNonSquare)
	require.ErrorIs(t, matrix.ValidateSquare(nil), matrix.ErrNilMatrix)
}

func TestValidateSameShape(t *testing.T) {
	require.NoError(t, matrix.ValidateSameShape(MustDense(t, 2, 3), MustDense(t, 2, 3)))
	require.ErrorIs(t, matrix.ValidateSameShape(MustDense(t, 2, 3), MustDense(t, 3, 3)), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, matrix.ValidateSameShape(MustDense(t, 2, 3), MustDense(t, 2, 2)), matrix.ErrDimensionMismatch)
}

func TestValidateFinite(t *testing.T) {
	m, err := matrix.NewDense(2, 2, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateFinite(m))

	require.NoError(t, m.Set(1, 0, math.Inf(1)))
	err = matrix.ValidateFinite(m)
	require.ErrorIs(t, err, matrix.ErrNaNInf)
	require.Contains(t, err.Error(), "(1,0)")

	require.ErrorIs(t, matrix.ValidateFinite(hide{m}), matrix.ErrNaNInf)
}
