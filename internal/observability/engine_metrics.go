// Package observability exposes engine execution metrics via Prometheus.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineCollector exposes engine-specific Prometheus metrics. It
// implements sim.Metrics.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	StepsTotal        prometheus.Counter
	ComputationsTotal *prometheus.CounterVec
	RunDuration       prometheus.Histogram
}

// NewEngineCollector registers engine metrics against the provided
// registerer.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	steps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_time_steps_total",
		Help: "Cumulative number of time steps executed by the engine.",
	})
	steps, err := registerCounter(reg, steps, "engine_time_steps_total")
	if err != nil {
		return nil, err
	}

	computations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_model_computations_total",
		Help: "Cumulative number of model computations executed, by process.",
	}, []string{"process"})
	if err := reg.Register(computations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			computations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_run_duration_seconds",
		Help:    "Duration of full engine runs across all time steps.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	duration, err = registerHistogram(reg, duration, "engine_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:          gatherer,
		StepsTotal:        steps,
		ComputationsTotal: computations,
		RunDuration:       duration,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *EngineCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// StepExecuted counts one completed time step.
func (c *EngineCollector) StepExecuted() {
	if c == nil || c.StepsTotal == nil {
		return
	}
	c.StepsTotal.Inc()
}

// ComputationExecuted counts one completed model computation.
func (c *EngineCollector) ComputationExecuted(process string) {
	if c == nil || c.ComputationsTotal == nil {
		return
	}
	c.ComputationsTotal.WithLabelValues(process).Inc()
}

// RunObserved records the duration of a full run.
func (c *EngineCollector) RunObserved(d time.Duration) {
	if c == nil || c.RunDuration == nil {
		return
	}
	c.RunDuration.Observe(d.Seconds())
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
