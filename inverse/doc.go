// SPDX-License-Identifier: MIT

// Package inverse computes A⁻¹ for a dense square matrix by two classical
// methods, each in a serial and a parallel form:
//
//   - Gauss–Jordan elimination on the augmented system [A | I].
//   - LU factorization with partial pivoting (P·A = L·U) followed by n
//     independent forward/backward solves, one per column of the identity.
//
// Both methods use partial pivoting and reject a pivot whose magnitude is at
// or below tolerance·max|a_ij| with ErrSingular. Exact comparison with zero is
// never used.
//
// The parallel forms distribute the row updates of one elimination step across
// a parallel.Pool and wait for all of them before the next pivot is chosen.
// LU additionally distributes the column solves, which need no ordering at all.
// Pivot selection, row swaps and the permutation record are handled only by
// the calling goroutine between steps.
//
// Every engine works on a private copy; the input matrix is never mutated.
//
// Example:
//
//	inv, err := inverse.LUParallel(ctx, a, inverse.WithWorkers(8))
//	if errors.Is(err, inverse.ErrSingular) {
//		// domain outcome: report to the caller
//	}
package inverse
