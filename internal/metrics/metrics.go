// SPDX-License-Identifier: MIT

// Package metrics records inversion timings as prometheus collectors on a
// private registry. The engine process has no HTTP surface, so the registry is
// exported as a text file (node-exporter textfile format) on exit.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/matinv/harness"
	"github.com/katalvlaran/matinv/inverse"
)

// Label values.
const (
	outcomeOK       = "ok"
	outcomeSingular = "singular"
	outcomeError    = "error"
)

// Recorder implements harness.Observer.
type Recorder struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	speedup  *prometheus.GaugeVec
}

var _ harness.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "matinv",
			Name:      "inversion_duration_seconds",
			Help:      "Wall-clock time of one inversion by method and variant.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"method", "variant"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matinv",
			Name:      "inversions_total",
			Help:      "Harness runs by method and outcome.",
		}, []string{"method", "outcome"}),
		speedup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "matinv",
			Name:      "speedup_ratio",
			Help:      "serial_time / parallel_time of the last successful run.",
		}, []string{"method"}),
	}
	r.registry.MustRegister(r.duration, r.runs, r.speedup)

	return r
}

// Registry exposes the private registry (for tests and custom exporters).
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveTiming records both durations and the speedup of a successful run.
func (r *Recorder) ObserveTiming(t harness.Timing) {
	method := t.Method.String()
	r.duration.WithLabelValues(method, inverse.Serial.String()).Observe(t.Serial.Seconds())
	r.duration.WithLabelValues(method, inverse.Parallel.String()).Observe(t.Parallel.Seconds())
	r.runs.WithLabelValues(method, outcomeOK).Inc()
	r.speedup.WithLabelValues(method).Set(t.Speedup())
}

// ObserveFailure counts a failed run, separating singular inputs from faults.
func (r *Recorder) ObserveFailure(m inverse.Method, err error) {
	outcome := outcomeError
	if errors.Is(err, inverse.ErrSingular) {
		outcome = outcomeSingular
	}
	r.runs.WithLabelValues(m.String(), outcome).Inc()
}

// WriteTextfile writes the registry to path in the prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
