// Package metrics exposes Prometheus instrumentation for the editor.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation results used as label values
const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
)

// Collector holds all Prometheus metrics for the application.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	Operations         *prometheus.CounterVec
	SimulationDuration prometheus.Histogram
	HistoryDepth       prometheus.Gauge
	HistoryCursor      prometheus.Gauge
	Nodes              prometheus.Gauge
	Connections        prometheus.Gauge
}

// NewCollector creates a collector with its own registry under namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "editor_operations_total",
				Help:      "Editor operations by name and result",
			},
			[]string{"op", "result"},
		),
		SimulationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "simulation_duration_seconds",
				Help:      "Time spent relaxing the circuit",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		HistoryDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_snapshots",
			Help:      "Snapshots held by the undo history",
		}),
		HistoryCursor: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_cursor",
			Help:      "Index of the current history snapshot",
		}),
		Nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the current graph",
		}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_connections",
			Help:      "Connections in the current graph",
		}),
	}

	registry.MustRegister(
		c.Operations,
		c.SimulationDuration,
		c.HistoryDepth,
		c.HistoryCursor,
		c.Nodes,
		c.Connections,
	)

	return c
}

// Registry returns the registry backing the collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordOperation counts an editor operation
func (c *Collector) RecordOperation(op string, applied bool) {
	if c == nil {
		return
	}
	result := ResultApplied
	if !applied {
		result = ResultRejected
	}
	c.Operations.WithLabelValues(op, result).Inc()
}

// ObserveSimulation records how long a simulation took
func (c *Collector) ObserveSimulation(d time.Duration) {
	if c == nil {
		return
	}
	c.SimulationDuration.Observe(d.Seconds())
}

// SetGraphSize publishes the current node and connection counts
func (c *Collector) SetGraphSize(nodes, connections int) {
	if c == nil {
		return
	}
	c.Nodes.Set(float64(nodes))
	c.Connections.Set(float64(connections))
}

// SetHistory publishes the history length and cursor
func (c *Collector) SetHistory(length, cursor int) {
	if c == nil {
		return
	}
	c.HistoryDepth.Set(float64(length))
	c.HistoryCursor.Set(float64(cursor))
}
