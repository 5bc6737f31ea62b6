// SPDX-License-Identifier: MIT

package inverse

import (
	"errors"
	"fmt"
)

var (
	// ErrSingular is returned when no row in the active column has a pivot
	// above the threshold. It is an expected domain outcome, not a fault.
	ErrSingular = errors.New("inverse: matrix is singular")

	// ErrUnknownMethod is returned by ParseMethod and Engine for names and
	// values outside {gauss, lu}.
	ErrUnknownMethod = errors.New("inverse: unknown method")

	// ErrUnknownVariant is returned by Engine for variants other than Serial/Parallel.
	ErrUnknownVariant = errors.New("inverse: unknown variant")

	// ErrNotRepresentable is returned when an entry of the computed inverse
	// falls outside the float64 range, e.g. the inverse of a subnormal 1×1.
	ErrNotRepresentable = errors.New("inverse: inverse is not representable")
)

// Operation tags for error wrapping.
const (
	opGauss     = "GaussJordan"
	opFactorize = "Factorize"
	opLU        = "LU"
	opSolve     = "Solve"
)

func inverseErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// singularErrorf reports the failing column together with the pivot magnitude
// and the threshold it had to exceed.
func singularErrorf(op string, col int, mag, threshold float64) error {
	return fmt.Errorf("%s: column %d: pivot %.3g <= %.3g: %w", op, col, mag, threshold, ErrSingular)
}
