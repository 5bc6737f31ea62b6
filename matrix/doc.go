// SPDX-License-Identifier: MIT

// Package matrix provides the dense storage and the small set of linear-algebra
// kernels the inversion engines are built on.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 buffer with bounds-checked At/Set and
//     no-copy Row access for hot loops.
//   - Constructors for zero, identity and flat (row-major) input.
//   - Mul, Transpose, MaxAbs and AllClose for residual and agreement checks.
//   - Central validators and a numeric policy (finite-only ingestion).
//
// All errors are package sentinels prefixed with "matrix: " and are matched
// with errors.Is. Public kernels never mutate their inputs.
package matrix
