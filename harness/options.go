// SPDX-License-Identifier: MIT

package harness

import (
	"math"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/matinv/inverse"
)

// DefaultVerifyTolerance bounds |serial - parallel| per element (absolute or relative).
const DefaultVerifyTolerance = 1e-6

const (
	panicVerifyTolerance = "harness: WithVerify: tol must be finite and > 0"
	panicPivotTolerance  = "harness: WithTolerance: tol must be finite and in [0, 1)"
)

// Observer receives the outcome of every Run. internal/metrics.Recorder
// implements it; tests use fakes.
type Observer interface {
	ObserveTiming(t Timing)
	ObserveFailure(m inverse.Method, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveTiming(Timing) {}
func (nopObserver) ObserveFailure(inverse.Method, error) {}

// Option configures Run.
type Option func(*options)

type options struct {
	workers   int
	tolerance float64
	verify    bool
	verifyTol float64
	observer  Observer
	log       logr.Logger
}

// WithWorkers fixes the pool size for the parallel run. n <= 0 selects runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithTolerance forwards the relative pivot threshold to both engines.
// Panics when tol is not in [0, 1).
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || tol < 0 || tol >= 1 {
		panic(panicPivotTolerance)
	}

	return func(o *options) { o.tolerance = tol }
}

// WithVerify enables the serial/parallel agreement check with the given tolerance.
func WithVerify(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicVerifyTolerance)
	}

	return func(o *options) {
		o.verify = true
		o.verifyTol = tol
	}
}

// WithoutVerify skips the agreement check.
func WithoutVerify() Option {
	return func(o *options) { o.verify = false }
}

// WithObserver reports every outcome to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}

func gatherOptions(user ...Option) options {
	o := options{
		tolerance: inverse.DefaultPivotTolerance,
		verify:    true,
		verifyTol: DefaultVerifyTolerance,
		observer:  nopObserver{},
		log:       logr.Discard(),
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
