package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the Prometheus collectors for lifecycle phases.
type Metrics struct {
	phaseRuns     *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	nodeCalls     *prometheus.CounterVec
	layers        prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		phaseRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netgraph_phase_runs_total",
				Help: "Lifecycle phase runs by phase and outcome",
			},
			[]string{"phase", "outcome"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "netgraph_phase_duration_seconds",
				Help:    "Wall time of a lifecycle phase across all layers",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"},
		),
		nodeCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netgraph_node_calls_total",
				Help: "Layer phase method invocations by phase, layer type and outcome",
			},
			[]string{"phase", "type", "outcome"},
		),
		layers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "netgraph_layers",
				Help: "Number of layers in the most recently built network",
			},
		),
		registry: registry,
	}

	registry.MustRegister(m.phaseRuns, m.phaseDuration, m.nodeCalls, m.layers)
	return m
}

// ObservePhase records one completed phase run.
func (m *Metrics) ObservePhase(phase string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.phaseRuns.WithLabelValues(phase, outcome(err)).Inc()
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// ObserveNode records one layer method invocation.
func (m *Metrics) ObserveNode(phase, layerType string, err error) {
	if m == nil {
		return
	}
	m.nodeCalls.WithLabelValues(phase, layerType, outcome(err)).Inc()
}

// SetLayers records the size of the current network.
func (m *Metrics) SetLayers(n int) {
	if m == nil {
		return
	}
	m.layers.Set(float64(n))
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
