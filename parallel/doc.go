// SPDX-License-Identifier: MIT

// Package parallel implements the fixed-size executor used by the parallel
// elimination and substitution kernels.
//
// A Pool splits an index range [lo, hi) into ⌈(hi-lo)/workers⌉-sized contiguous
// chunks, runs the chunks concurrently and returns only after every chunk has
// finished. That return is the step barrier: all writes made by the chunks
// happen-before the caller continues. The first chunk error is surfaced; the
// remaining chunks run to completion.
//
// A panic inside a chunk is recovered and reported as ErrWorkerFailure so it is
// distinguishable from domain errors returned by the chunk function itself.
package parallel
