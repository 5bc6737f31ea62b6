// SPDX-License-Identifier: MIT

package harness

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/matinv/inverse"
	"github.com/katalvlaran/matinv/matrix"
	"github.com/katalvlaran/matinv/parallel"
)

// Timing is the comparison record of one Run. Both durations are measured
// independently; Parallel may exceed Serial on small inputs.
type Timing struct {
	Method   inverse.Method
	Size     int
	Workers  int
	Serial   time.Duration
	Parallel time.Duration
}

// Speedup returns Serial/Parallel, or 0 when Parallel is zero.
func (t Timing) Speedup() float64 {
	if t.Parallel <= 0 {
		return 0
	}

	return float64(t.Serial) / float64(t.Parallel)
}

// Result is the output of Run. It is not modified after Run returns.
type Result struct {
	Inverse *matrix.Dense
	Timing  Timing
}

// Run inverts a with the serial and then the parallel variant of method.
// Implementation:
//   - Stage 1: resolve engines, validate a, clone it once per variant, build the pool.
//   - Stage 2: time the serial engine on its clone.
//   - Stage 3: time the parallel engine on its clone.
//   - Stage 4: optionally verify agreement; report to the observer.
//
// Errors:
//   - inverse.ErrUnknownMethod, matrix validation sentinels.
//   - inverse.ErrSingular from either run (the serial run fails first).
//   - inverse.ErrNotRepresentable when A⁻¹ overflows float64.
//   - parallel.ErrWorkerFailure, ctx.Err().
//   - ErrDisagreement when verification is enabled and fails.
func Run(ctx context.Context, method inverse.Method, a matrix.Matrix, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	res, err := run(ctx, method, a, o)
	if err != nil {
		o.observer.ObserveFailure(method, err)
		if errors.Is(err, inverse.ErrSingular) {
			o.log.V(1).Info("matrix is singular", "method", method.Label(), "reason", err.Error())
		} else {
			o.log.Error(err, "inversion failed", "method", method.Label())
		}

		return nil, err
	}
	o.observer.ObserveTiming(res.Timing)
	o.log.V(1).Info("inversion finished",
		"method", method.Label(),
		"size", res.Timing.Size,
		"workers", res.Timing.Workers,
		"serial", res.Timing.Serial,
		"parallel", res.Timing.Parallel,
		"speedup", res.Timing.Speedup())

	return res, nil
}

func run(ctx context.Context, method inverse.Method, a matrix.Matrix, o options) (*Result, error) {
	serialFn, err := inverse.Engine(method, inverse.Serial)
	if err != nil {
		return nil, err
	}
	parallelFn, err := inverse.Engine(method, inverse.Parallel)
	if err != nil {
		return nil, err
	}
	if err = matrix.ValidateSquare(a); err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	serialIn := matrix.CloneMatrix(a)
	parallelIn := matrix.CloneMatrix(a)
	pool := parallel.NewPool(o.workers)
	engineOpts := []inverse.Option{inverse.WithTolerance(o.tolerance), inverse.WithPool(pool)}
	n := a.Rows()

	o.log.V(1).Info("inversion started", "method", method.Label(), "size", n, "workers", pool.Workers())

	start := time.Now()
	serialInv, err := serialFn(ctx, serialIn, engineOpts...)
	serialDur := time.Since(start)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	parallelInv, err := parallelFn(ctx, parallelIn, engineOpts...)
	parallelDur := time.Since(start)
	if err != nil {
		return nil, err
	}

	if o.verify {
		if err = agree(serialInv, parallelInv, o.verifyTol); err != nil {
			return nil, err
		}
	}

	return &Result{
		Inverse: parallelInv,
		Timing: Timing{
			Method:   method,
			Size:     n,
			Workers:  pool.Workers(),
			Serial:   serialDur,
			Parallel: parallelDur,
		},
	}, nil
}

// agree compares the two inverses element-wise within tol (absolute or relative).
func agree(serial, par *matrix.Dense, tol float64) error {
	s, p := serial.RawData(), par.RawData()
	if len(s) != len(p) {
		return fmt.Errorf("%d vs %d elements: %w", len(s), len(p), ErrDisagreement)
	}
	if floats.EqualApprox(s, p, tol) {
		return nil
	}

	return fmt.Errorf("max |serial-parallel| = %.3g > %.3g: %w", floats.Distance(s, p, math.Inf(1)), tol, ErrDisagreement)
}
