// SPDX-License-Identifier: MIT

package inverse

import (
	"context"

	"github.com/katalvlaran/matinv/matrix"
)

// GaussJordan computes A⁻¹ serially by Gauss–Jordan elimination with partial pivoting.
// Implementation:
//   - Stage 1: validate A (non-nil, square, finite); divide a working copy by
//     max|a_ij| and derive the pivot threshold.
//   - Stage 2: build the n×2n augmented system [A | I].
//   - Stage 3: for k = 0..n-1: select pivot, swap into row k, normalize row k,
//     eliminate column k from every other row.
//   - Stage 4: copy the right half out and undo the scaling.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrNonSquare, matrix.ErrNaNInf (validation).
//   - ErrSingular when a column has no pivot above the threshold.
//   - ErrNotRepresentable when an entry of A⁻¹ overflows float64.
//   - ctx.Err() when ctx is cancelled between steps.
//
// Complexity:
//   - Time O(n^3), Space O(n^2) for the augmented system.
func GaussJordan(ctx context.Context, a matrix.Matrix, opts ...Option) (*matrix.Dense, error) {
	o := gatherOptions(opts...)

	return gaussJordan(ctx, a, o.tolerance, serialRunner)
}

// GaussJordanParallel is GaussJordan with the row updates of each step
// distributed over the pool. Every step ends with a barrier.
func GaussJordanParallel(ctx context.Context, a matrix.Matrix, opts ...Option) (*matrix.Dense, error) {
	o := gatherOptions(opts...)

	return gaussJordan(ctx, a, o.tolerance, poolRunner(o.pool))
}

func gaussJordan(ctx context.Context, a matrix.Matrix, tol float64, run rangeRunner) (*matrix.Dense, error) {
	if err := matrix.ValidateSquare(a); err != nil {
		return nil, inverseErrorf(opGauss, err)
	}
	if err := matrix.ValidateFinite(a); err != nil {
		return nil, inverseErrorf(opGauss, err)
	}
	w, scale, err := normalize(a)
	if err != nil {
		return nil, inverseErrorf(opGauss, err)
	}
	threshold, err := pivotThreshold(w, tol)
	if err != nil {
		return nil, inverseErrorf(opGauss, err)
	}

	n := w.Rows()
	aug, err := augment(w)
	if err != nil {
		return nil, inverseErrorf(opGauss, err)
	}

	for k := 0; k < n; k++ {
		if err = ctx.Err(); err != nil {
			return nil, inverseErrorf(opGauss, err)
		}

		p, mag := selectPivot(aug, k, k)
		if mag <= threshold {
			return nil, singularErrorf(opGauss, k, mag*scale, threshold*scale)
		}
		if err = aug.SwapRows(p, k); err != nil {
			return nil, inverseErrorf(opGauss, err)
		}

		// Normalize the pivot row; columns left of k are already zero.
		pivotRow := aug.Row(k)
		r := 1 / pivotRow[k]
		for j := k + 1; j < len(pivotRow); j++ {
			pivotRow[j] *= r
		}
		pivotRow[k] = 1

		// Each worker owns a disjoint set of rows and only reads pivotRow.
		err = run(ctx, 0, n, func(lo, hi int) error {
			for i := lo; i < hi; i++ {
				if i != k {
					eliminateRow(aug.Row(i), pivotRow, k)
				}
			}

			return nil
		})
		if err != nil {
			return nil, inverseErrorf(opGauss, err)
		}
	}

	inv, err := matrix.NewZeros(n, n)
	if err != nil {
		return nil, inverseErrorf(opGauss, err)
	}
	for i := 0; i < n; i++ {
		copy(inv.Row(i), aug.Row(i)[n:])
	}
	if err = unscale(inv, scale); err != nil {
		return nil, inverseErrorf(opGauss, err)
	}

	return inv, nil
}

// augment builds [W | I] as a fresh n×2n buffer.
func augment(w *matrix.Dense) (*matrix.Dense, error) {
	n := w.Rows()
	aug, err := matrix.NewZeros(n, 2*n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		row := aug.Row(i)
		copy(row, w.Row(i))
		row[n+i] = 1
	}

	return aug, nil
}

// eliminateRow subtracts row[k]·pivot from row, zeroing column k.
// Columns before k are zero in pivot, so the loop starts at k.
func eliminateRow(row, pivot []float64, k int) {
	f := row[k]
	if f == 0 {
		return
	}
	for j := k + 1; j < len(row); j++ {
		row[j] -= f * pivot[j]
	}
	row[k] = 0
}
