// SPDX-License-Identifier: MIT

package parallel

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool is a fixed-size executor. The worker count is set at construction and
// never changes. A Pool holds no goroutines between calls and may be reused by
// sequential steps. Concurrent Range calls on the same Pool are safe but each
// spawns its own chunk goroutines.
type Pool struct {
	workers int
}

// NewPool returns a pool with the given worker count.
// workers <= 0 selects runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Pool{workers: workers}
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int { return p.workers }

// ChunkSize returns the chunk length used for a range of n indices.
func (p *Pool) ChunkSize(n int) int {
	if n <= 0 {
		return 0
	}

	return (n + p.workers - 1) / p.workers
}

// Range runs fn over contiguous chunks of [lo, hi) and blocks until all chunks
// return.
// Implementation:
//   - Stage 1: validate the range; an empty range returns nil without calling fn.
//   - Stage 2: check ctx once before launching work.
//   - Stage 3: single chunk → run inline on the caller's goroutine.
//   - Stage 4: otherwise one errgroup goroutine per chunk; Wait is the barrier.
//
// Errors:
//   - ErrInvalidRange when hi < lo.
//   - ctx.Err() when ctx is already done.
//   - the first error returned by fn, or ErrWorkerFailure for a recovered panic.
//
// Notes:
//   - Chunks never overlap, so fn may write the indices it is handed without locking.
func (p *Pool) Range(ctx context.Context, lo, hi int, fn func(lo, hi int) error) error {
	if hi < lo {
		return fmt.Errorf("Range(%d,%d): %w", lo, hi, ErrInvalidRange)
	}
	if hi == lo {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	size := p.ChunkSize(hi - lo)
	if size >= hi-lo {
		return runChunk(fn, lo, hi)
	}

	var g errgroup.Group
	for start := lo; start < hi; start += size {
		start, end := start, min(start+size, hi)
		g.Go(func() error { return runChunk(fn, start, end) })
	}

	return g.Wait()
}

// For is the per-index form of Range: fn is called once for every i in [lo, hi).
// A chunk stops at its first failing index.
func (p *Pool) For(ctx context.Context, lo, hi int, fn func(i int) error) error {
	return p.Range(ctx, lo, hi, func(clo, chi int) error {
		for i := clo; i < chi; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}

		return nil
	})
}

// runChunk invokes fn and converts a panic into ErrWorkerFailure.
func runChunk(fn func(lo, hi int) error, lo, hi int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chunk [%d,%d): %v: %w", lo, hi, r, ErrWorkerFailure)
		}
	}()

	return fn(lo, hi)
}
