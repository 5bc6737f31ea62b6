// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matinv/matrix"
)

func TestOptions_Defaults(t *testing.T) {
	o := matrix.NewMatrixOptions()
	require.Equal(t, matrix.DefaultEpsilon, o.Epsilon())
	require.Equal(t, matrix.DefaultValidateNaNInf, o.ValidateNaNInf())
}

func TestOptions_LastWriterWins(t *testing.T) {
	o := matrix.NewMatrixOptions(
		matrix.WithNoValidateNaNInf(),
		matrix.WithEpsilon(1e-3),
		matrix.WithValidateNaNInf(),
	)
	require.True(t, o.ValidateNaNInf())
	require.Equal(t, 1e-3, o.Epsilon())
}

func TestWithEpsilon_PanicsOnNonsense(t *testing.T) {
	for _, eps := range []float64{-1, math.NaN(), math.Inf(1)} {
		require.Panics(t, func() { matrix.WithEpsilon(eps) })
	}
}
