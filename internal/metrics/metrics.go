// Package metrics exposes Prometheus counters for the widget host.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several hosts can coexist in one
// process.
type Metrics struct {
	reg *prometheus.Registry

	Interactions *prometheus.CounterVec
	Rebuilds     *prometheus.CounterVec
	RebuildTime  prometheus.Histogram
	RenderTime   *prometheus.HistogramVec
	Requests     *prometheus.CounterVec
	GraphNodes   *prometheus.GaugeVec
	LayoutTicks  prometheus.Histogram
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Interactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillgraph_interactions_total",
				Help: "User interactions handled by the controller",
			},
			[]string{"action"},
		),
		Rebuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillgraph_rebuilds_total",
				Help: "Graph rebuilds by requested dataset and outcome",
			},
			[]string{"extended", "result"},
		),
		RebuildTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillgraph_rebuild_seconds",
			Help:    "Time spent rebuilding the graph",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		RenderTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skillgraph_render_seconds",
				Help:    "Time spent producing a snapshot",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillgraph_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		GraphNodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skillgraph_graph_nodes",
				Help: "Nodes in the graph for each dataset",
			},
			[]string{"dataset"},
		),
		LayoutTicks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillgraph_layout_ticks",
			Help:    "Simulation ticks taken to settle a snapshot",
			Buckets: prometheus.LinearBuckets(50, 50, 8),
		}),
	}
	m.reg.MustRegister(
		m.Interactions, m.Rebuilds, m.RebuildTime, m.RenderTime,
		m.Requests, m.GraphNodes, m.LayoutTicks,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Interaction counts one controller action.
func (m *Metrics) Interaction(action string) {
	m.Interactions.WithLabelValues(action).Inc()
}

// Rebuild records one dataset rebuild.
func (m *Metrics) Rebuild(extended bool, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Rebuilds.WithLabelValues(strconv.FormatBool(extended), result).Inc()
	m.RebuildTime.Observe(d.Seconds())
}

// Render records one snapshot render.
func (m *Metrics) Render(format string, d time.Duration) {
	m.RenderTime.WithLabelValues(format).Observe(d.Seconds())
}

// Request counts one HTTP request.
func (m *Metrics) Request(route string, code int) {
	m.Requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Nodes sets the node gauge for a dataset.
func (m *Metrics) Nodes(extended bool, n int) {
	dataset := "base"
	if extended {
		dataset = "extended"
	}
	m.GraphNodes.WithLabelValues(dataset).Set(float64(n))
}

// Ticks records how many ticks a layout took to settle.
func (m *Metrics) Ticks(n int) {
	m.LayoutTicks.Observe(float64(n))
}
