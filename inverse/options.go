// SPDX-License-Identifier: MIT

package inverse

import (
	"math"

	"github.com/katalvlaran/matinv/parallel"
)

// DefaultPivotTolerance is the relative pivot threshold: a pivot is usable
// only when |p| > DefaultPivotTolerance · max|a_ij|.
const DefaultPivotTolerance = 1e-10

const (
	panicToleranceInvalid = "inverse: WithTolerance: tol must be finite and in [0, 1)"
	panicPoolNil          = "inverse: WithPool: pool must not be nil"
)

// Option configures an engine invocation.
type Option func(*Options)

// Options is the resolved configuration of one engine invocation.
type Options struct {
	tolerance float64
	workers   int
	pool      *parallel.Pool
}

// WithTolerance sets the relative pivot threshold. Panics when tol is not in [0, 1).
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || tol < 0 || tol >= 1 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tolerance = tol }
}

// WithWorkers fixes the worker count of the pool created for a parallel run.
// n <= 0 selects runtime.NumCPU(). Ignored by serial engines and when WithPool is given.
func WithWorkers(n int) Option {
	return func(o *Options) { o.workers = n }
}

// WithPool runs parallel engines on an existing pool.
func WithPool(p *parallel.Pool) Option {
	if p == nil {
		panic(panicPoolNil)
	}

	return func(o *Options) { o.pool = p }
}

func gatherOptions(user ...Option) Options {
	o := Options{tolerance: DefaultPivotTolerance}
	for _, set := range user {
		set(&o)
	}
	if o.pool == nil {
		o.pool = parallel.NewPool(o.workers)
	}

	return o
}
