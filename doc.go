// Package matinv inverts dense square matrices and measures what parallelism
// buys. Every request is solved twice, serially and on a worker pool, by the
// same algorithm, and both wall-clock times are reported next to the inverse.
//
// Two methods are available:
//
//	gauss — Gauss–Jordan elimination on [A | I] with partial pivoting
//	lu    — P·A = L·U (Doolittle, partial pivoting), then one forward and
//	        one backward solve per column of I
//
// Packages:
//
//	matrix/    — row-major Dense, validators, Mul/Transpose/MaxAbs/AllClose
//	parallel/  — fixed-size Pool; Range is the per-step barrier
//	inverse/   — the four engines, pivot selection, Permutation, LU Factors
//	harness/   — serial vs parallel timing with agreement verification
//	contract/  — request decoding/validation and response assembly
//	cmd/matinv — the engine process: one document in, one document out
//
// Quick example:
//
//	a, _ := matrix.NewSquare(2, []float64{4, 3, 6, 3})
//	inv, _ := inverse.LU(ctx, a)       // [[-0.5 0.5] [1 -0.6667]]
//	res, _ := harness.Run(ctx, inverse.Gauss, a, harness.WithWorkers(4))
//	fmt.Println(res.Timing.Speedup())
//
//	go install github.com/katalvlaran/matinv/cmd/matinv@latest
package matinv
