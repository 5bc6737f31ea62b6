// SPDX-License-Identifier: MIT

package inverse

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/matinv/matrix"
	"github.com/katalvlaran/matinv/parallel"
)

// Permutation records row interchanges: p[i] is the original row index that
// now sits at position i. For LU factors, (P·A)[i] = A[p[i]].
type Permutation []int

// identityPermutation returns [0, 1, ..., n-1].
func identityPermutation(n int) Permutation {
	p := make(Permutation, n)
	for i := range p {
		p[i] = i
	}

	return p
}

// Swap exchanges positions i and j.
func (p Permutation) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

// Apply returns P·b, i.e. out[i] = b[p[i]].
func (p Permutation) Apply(b []float64) ([]float64, error) {
	if len(b) != len(p) {
		return nil, fmt.Errorf("Permutation.Apply: len %d != %d: %w", len(b), len(p), matrix.ErrDimensionMismatch)
	}
	out := make([]float64, len(b))
	for i, src := range p {
		out[i] = b[src]
	}

	return out, nil
}

// Inverse returns q with q[p[i]] = i, the position each original row ended up at.
func (p Permutation) Inverse() Permutation {
	q := make(Permutation, len(p))
	for i, src := range p {
		q[src] = i
	}

	return q
}

// PermuteRows returns P·A as a new matrix.
func (p Permutation) PermuteRows(a *matrix.Dense) (*matrix.Dense, error) {
	if a.Rows() != len(p) {
		return nil, fmt.Errorf("Permutation.PermuteRows: %d rows, %d entries: %w", a.Rows(), len(p), matrix.ErrDimensionMismatch)
	}
	out, err := matrix.NewDense(a.Rows(), a.Cols())
	if err != nil {
		return nil, err
	}
	for i, src := range p {
		copy(out.Row(i), a.Row(src))
	}

	return out, nil
}

// Sign returns +1 for an even permutation and -1 for an odd one.
// Complexity: O(n) via cycle decomposition.
func (p Permutation) Sign() float64 {
	seen := make([]bool, len(p))
	sign := 1.0
	for i := range p {
		if seen[i] {
			continue
		}
		length := 0
		for j := i; !seen[j]; j = p[j] {
			seen[j] = true
			length++
		}
		if length%2 == 0 {
			sign = -sign
		}
	}

	return sign
}

// pivotThreshold converts the relative tolerance into an absolute bound for
// this matrix. A zero matrix yields 0, so every pivot is rejected.
func pivotThreshold(a matrix.Matrix, tol float64) (float64, error) {
	scale, err := matrix.MaxAbs(a)
	if err != nil {
		return 0, err
	}

	return tol * scale, nil
}

// normalize returns a working copy of a divided by its largest magnitude,
// together with that divisor. Every entry of the copy lies in [-1, 1], so
// elimination on finite input cannot overflow. A zero matrix keeps divisor 1.
func normalize(a matrix.Matrix) (*matrix.Dense, float64, error) {
	w, err := matrix.AsDense(a)
	if err != nil {
		return nil, 0, err
	}
	scale, err := matrix.MaxAbs(w)
	if err != nil {
		return nil, 0, err
	}
	if scale == 0 || scale == 1 {
		return w, 1, nil
	}
	data := w.RawData()
	for i := range data {
		data[i] /= scale
	}

	return w, scale, nil
}

// unscale turns (A/scale)⁻¹ into A⁻¹ = (A/scale)⁻¹ / scale in place.
// An entry that does not fit in a float64 fails with ErrNotRepresentable.
func unscale(inv *matrix.Dense, scale float64) error {
	data, cols := inv.RawData(), inv.Cols()
	for i, v := range data {
		v /= scale
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("entry (%d,%d) = %g: %w", i/cols, i%cols, v, ErrNotRepresentable)
		}
		data[i] = v
	}

	return nil
}

// selectPivot scans column k over rows [from, n) and returns the row with the
// largest magnitude. Ties keep the lowest row index.
func selectPivot(m *matrix.Dense, k, from int) (row int, mag float64) {
	data, stride := m.RawData(), m.Cols()
	row, mag = from, -1
	for i := from; i < m.Rows(); i++ {
		if v := math.Abs(data[i*stride+k]); v > mag {
			row, mag = i, v
		}
	}

	return row, mag
}

// rangeRunner executes fn over [lo, hi) and returns once all of it is done.
// Kernels are written once against this type; the variant decides whether the
// range runs inline or is split across a pool.
type rangeRunner func(ctx context.Context, lo, hi int, fn func(lo, hi int) error) error

// serialRunner runs the whole range on the calling goroutine.
func serialRunner(_ context.Context, lo, hi int, fn func(lo, hi int) error) error {
	if hi <= lo {
		return nil
	}

	return fn(lo, hi)
}

// poolRunner distributes the range over p. Its return is the step barrier.
func poolRunner(p *parallel.Pool) rangeRunner {
	return p.Range
}
