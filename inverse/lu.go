// SPDX-License-Identifier: MIT

package inverse

import (
	"context"
	"fmt"

	"github.com/katalvlaran/matinv/matrix"
)

// Factors holds the result of LU factorization with partial pivoting.
// Invariant: P·A = L·U, where (P·A)[i] = A[Perm[i]].
type Factors struct {
	L    *matrix.Dense // unit lower-triangular
	U    *matrix.Dense // upper-triangular, non-zero diagonal
	Perm Permutation
}

// Size returns n.
func (f *Factors) Size() int { return f.U.Rows() }

// Factorize computes P·A = L·U serially.
// Implementation:
//   - Stage 1: validate A (non-nil, square, finite); derive the pivot threshold.
//   - Stage 2: on a working copy, for k = 0..n-1: select pivot, swap rows (and Perm),
//     store multipliers l_ik below the diagonal and update the trailing block.
//   - Stage 3: split the working copy into explicit L and U.
//
// Elimination runs on A / max|a_ij|; U is scaled back before returning, so
// the factors describe A itself.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrNonSquare, matrix.ErrNaNInf (validation).
//   - ErrSingular when a column has no pivot above the threshold.
//   - ctx.Err() when ctx is cancelled between steps.
//
// Complexity:
//   - Time O(n^3) (2n³/3 flops), Space O(n^2).
func Factorize(ctx context.Context, a matrix.Matrix, opts ...Option) (*Factors, error) {
	o := gatherOptions(opts...)
	f, scale, err := factorize(ctx, a, o.tolerance, serialRunner)
	if err != nil {
		return nil, err
	}
	f.scaleU(scale)

	return f, nil
}

// FactorizeParallel is Factorize with the row updates of each step
// distributed over the pool and a barrier between steps.
func FactorizeParallel(ctx context.Context, a matrix.Matrix, opts ...Option) (*Factors, error) {
	o := gatherOptions(opts...)
	f, scale, err := factorize(ctx, a, o.tolerance, poolRunner(o.pool))
	if err != nil {
		return nil, err
	}
	f.scaleU(scale)

	return f, nil
}

// LU computes A⁻¹ serially: Factorize, then one forward/backward solve per
// identity column.
func LU(ctx context.Context, a matrix.Matrix, opts ...Option) (*matrix.Dense, error) {
	o := gatherOptions(opts...)
	f, scale, err := factorize(ctx, a, o.tolerance, serialRunner)
	if err != nil {
		return nil, err
	}

	return f.inverse(ctx, serialRunner, scale)
}

// LUParallel computes A⁻¹ with a parallel factorization and the n column
// solves distributed over the pool. The solves are independent and only
// joined once at the end.
func LUParallel(ctx context.Context, a matrix.Matrix, opts ...Option) (*matrix.Dense, error) {
	o := gatherOptions(opts...)
	run := poolRunner(o.pool)
	f, scale, err := factorize(ctx, a, o.tolerance, run)
	if err != nil {
		return nil, err
	}

	return f.inverse(ctx, run, scale)
}

// factorize returns the factors of A/scale together with scale.
func factorize(ctx context.Context, a matrix.Matrix, tol float64, run rangeRunner) (*Factors, float64, error) {
	if err := matrix.ValidateSquare(a); err != nil {
		return nil, 0, inverseErrorf(opFactorize, err)
	}
	if err := matrix.ValidateFinite(a); err != nil {
		return nil, 0, inverseErrorf(opFactorize, err)
	}
	w, scale, err := normalize(a)
	if err != nil {
		return nil, 0, inverseErrorf(opFactorize, err)
	}
	threshold, err := pivotThreshold(w, tol)
	if err != nil {
		return nil, 0, inverseErrorf(opFactorize, err)
	}
	n := w.Rows()
	perm := identityPermutation(n)

	for k := 0; k < n; k++ {
		if err = ctx.Err(); err != nil {
			return nil, 0, inverseErrorf(opFactorize, err)
		}

		p, mag := selectPivot(w, k, k)
		if mag <= threshold {
			return nil, 0, singularErrorf(opFactorize, k, mag*scale, threshold*scale)
		}
		// Whole-row swap also moves the multipliers already stored left of k.
		if err = w.SwapRows(p, k); err != nil {
			return nil, 0, inverseErrorf(opFactorize, err)
		}
		perm.Swap(p, k)

		pivotRow := w.Row(k)
		pivot := pivotRow[k]
		err = run(ctx, k+1, n, func(lo, hi int) error {
			for i := lo; i < hi; i++ {
				row := w.Row(i)
				l := row[k] / pivot
				row[k] = l
				if l == 0 {
					continue
				}
				for j := k + 1; j < n; j++ {
					row[j] -= l * pivotRow[j]
				}
			}

			return nil
		})
		if err != nil {
			return nil, 0, inverseErrorf(opFactorize, err)
		}
	}
	f, err := splitFactors(w, perm)
	if err != nil {
		return nil, 0, err
	}

	return f, scale, nil
}

// splitFactors copies the packed factorization into explicit L (unit diagonal) and U.
func splitFactors(w *matrix.Dense, perm Permutation) (*Factors, error) {
	n := w.Rows()
	L, err := matrix.NewIdentity(n)
	if err != nil {
		return nil, inverseErrorf(opFactorize, err)
	}
	U, err := matrix.NewZeros(n, n)
	if err != nil {
		return nil, inverseErrorf(opFactorize, err)
	}
	for i := 0; i < n; i++ {
		src := w.Row(i)
		copy(L.Row(i)[:i], src[:i])
		copy(U.Row(i)[i:], src[i:])
	}

	return &Factors{L: L, U: U, Perm: perm}, nil
}

// scaleU multiplies U by scale, turning the factors of A/scale into those of A.
func (f *Factors) scaleU(scale float64) {
	if scale == 1 {
		return
	}
	for i := 0; i < f.Size(); i++ {
		row := f.U.Row(i)
		for j := i; j < len(row); j++ {
			row[j] *= scale
		}
	}
}

// Solve returns x with A·x = b using the factors.
// Errors: matrix.ErrDimensionMismatch when len(b) != n.
// Complexity: O(n^2).
func (f *Factors) Solve(b []float64) ([]float64, error) {
	pb, err := f.Perm.Apply(b)
	if err != nil {
		return nil, inverseErrorf(opSolve, err)
	}
	x := make([]float64, len(pb))
	f.forward(pb, 0)
	f.backward(pb, x)

	return x, nil
}

// Determinant returns det(A) = sign(P) · Π U[i,i].
func (f *Factors) Determinant() float64 {
	det := f.Perm.Sign()
	for i := 0; i < f.Size(); i++ {
		det *= f.U.Row(i)[i]
	}

	return det
}

// inverse assembles A⁻¹ column by column from the factors of A/scale.
// Column j is solved into row j of a transposed buffer so every solve writes
// a row of its own; one transpose at the end restores the layout.
func (f *Factors) inverse(ctx context.Context, run rangeRunner, scale float64) (*matrix.Dense, error) {
	n := f.Size()
	invT, err := matrix.NewZeros(n, n)
	if err != nil {
		return nil, inverseErrorf(opLU, err)
	}
	// pos[j] is the row of P·e_j that holds the single 1.
	pos := f.Perm.Inverse()

	err = run(ctx, 0, n, func(lo, hi int) error {
		y := make([]float64, n)
		for j := lo; j < hi; j++ {
			clear(y)
			y[pos[j]] = 1
			f.forward(y, pos[j])
			f.backward(y, invT.Row(j))
		}

		return nil
	})
	if err != nil {
		return nil, inverseErrorf(opLU, err)
	}

	inv, err := matrix.Transpose(invT)
	if err != nil {
		return nil, inverseErrorf(opLU, err)
	}
	if err = unscale(inv, scale); err != nil {
		return nil, inverseErrorf(opLU, err)
	}

	return inv, nil
}

// forward solves L·y = b in place (b becomes y). Entries above from are known
// to be zero in both b and y, so the sweep starts at from.
func (f *Factors) forward(y []float64, from int) {
	for i := from + 1; i < len(y); i++ {
		row := f.L.Row(i)
		sum := y[i]
		for k := from; k < i; k++ {
			sum -= row[k] * y[k]
		}
		y[i] = sum
	}
}

// backward solves U·x = y into x.
func (f *Factors) backward(y, x []float64) {
	n := len(y)
	for i := n - 1; i >= 0; i-- {
		row := f.U.Row(i)
		sum := y[i]
		for k := i + 1; k < n; k++ {
			sum -= row[k] * x[k]
		}
		x[i] = sum / row[i]
	}
}

// String renders the factors for debugging.
func (f *Factors) String() string {
	return fmt.Sprintf("L=\n%sU=\n%sPerm=%v", f.L, f.U, f.Perm)
}
