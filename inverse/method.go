// SPDX-License-Identifier: MIT

package inverse

import (
	"context"
	"fmt"
	"strings"

	"github.com/katalvlaran/matinv/matrix"
)

// Method selects the inversion algorithm.
type Method int

const (
	// Gauss is Gauss–Jordan elimination on [A | I].
	Gauss Method = iota + 1
	// LUDecomposition is P·A = L·U followed by per-column solves.
	LUDecomposition
)

// Method names as they appear in requests, and the human-readable labels of responses.
const (
	NameGauss = "gauss"
	NameLU    = "lu"

	LabelGauss = "Gaussian Elimination"
	LabelLU    = "LU Decomposition"
)

// ParseMethod accepts the short names ("gauss", "lu") and the labels
// ("Gaussian Elimination", "LU Decomposition"), case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case NameGauss, strings.ToLower(LabelGauss):
		return Gauss, nil
	case NameLU, strings.ToLower(LabelLU):
		return LUDecomposition, nil
	default:
		return 0, fmt.Errorf("ParseMethod(%q): %w", s, ErrUnknownMethod)
	}
}

// String returns the short request name.
func (m Method) String() string {
	switch m {
	case Gauss:
		return NameGauss
	case LUDecomposition:
		return NameLU
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Label returns the human-readable name used in responses.
func (m Method) Label() string {
	switch m {
	case Gauss:
		return LabelGauss
	case LUDecomposition:
		return LabelLU
	default:
		return m.String()
	}
}

// Variant selects serial or parallel execution.
type Variant int

const (
	Serial Variant = iota + 1
	Parallel
)

func (v Variant) String() string {
	switch v {
	case Serial:
		return "serial"
	case Parallel:
		return "parallel"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Func is the common signature of all four engines.
type Func func(ctx context.Context, a matrix.Matrix, opts ...Option) (*matrix.Dense, error)

// Engine returns the engine for a method and variant.
func Engine(m Method, v Variant) (Func, error) {
	switch {
	case m == Gauss && v == Serial:
		return GaussJordan, nil
	case m == Gauss && v == Parallel:
		return GaussJordanParallel, nil
	case m == LUDecomposition && v == Serial:
		return LU, nil
	case m == LUDecomposition && v == Parallel:
		return LUParallel, nil
	case m != Gauss && m != LUDecomposition:
		return nil, fmt.Errorf("Engine(%s): %w", m, ErrUnknownMethod)
	default:
		return nil, fmt.Errorf("Engine(%s): %w", v, ErrUnknownVariant)
	}
}

// Invert runs the engine selected by m and v on a.
func Invert(ctx context.Context, m Method, v Variant, a matrix.Matrix, opts ...Option) (*matrix.Dense, error) {
	fn, err := Engine(m, v)
	if err != nil {
		return nil, err
	}

	return fn(ctx, a, opts...)
}
