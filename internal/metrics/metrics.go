// Package metrics exposes Prometheus instrumentation for the motor pipeline.
// Recoverable conditions (overflow, fallback, filter resets) surface here as
// counters rather than per-occurrence log lines.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SamplesReceived counts samples accepted into the ingress queue.
	SamplesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "motor_samples_received_total",
			Help: "Total number of sensor samples accepted into the ingress queue",
		},
	)

	// SamplesDropped counts samples dropped because the ingress queue was full.
	SamplesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "motor_samples_dropped_total",
			Help: "Total number of sensor samples dropped on enqueue",
		},
	)

	// QueueOverflows counts drain cycles that exceeded the overflow cap and
	// kept only the newest sample.
	QueueOverflows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "motor_queue_overflow_total",
			Help: "Total number of drain cycles that hit the queue overflow cap",
		},
	)

	// FallbackCycles counts processing cycles that emitted the EMA fallback
	// instead of the full filter chain output.
	FallbackCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motor_fallback_cycles_total",
			Help: "Total number of cycles that fell back to the EMA path",
		},
		[]string{"reason"},
	)

	// FilterResets counts forced filter state resets after numerical
	// instability.
	FilterResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "motor_filter_resets_total",
			Help: "Total number of forced filter state resets",
		},
	)

	// Cycles counts completed drain cycles.
	Cycles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "motor_cycles_total",
			Help: "Total number of completed drain cycles",
		},
	)

	// FaultScore tracks the most recent current-signature fault score.
	FaultScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "motor_fault_score",
			Help: "Most recent Park vector modulus MSE fault score",
		},
	)

	// QueueDepth tracks the ingress queue depth observed at the start of the
	// most recent drain cycle.
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "motor_queue_depth",
			Help: "Ingress queue depth at the start of the last drain cycle",
		},
	)

	// WarningsActive tracks the number of active warning messages on the last
	// emitted record.
	WarningsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "motor_warnings_active",
			Help: "Number of active warnings on the last emitted record",
		},
	)
)
