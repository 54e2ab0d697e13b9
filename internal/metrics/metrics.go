// Package metrics records Prometheus metrics for root-finding runs and the
// HTTP requests which start them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zephyrtronium/rootfind/methods"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Run metrics
	RunsTotal    *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	Iterations   *prometheus.HistogramVec
	InvalidTotal prometheus.Counter

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a metrics collector with its own registry, which also carries
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rootfind_runs_total",
				Help: "Total number of root-finding runs by method and status",
			},
			[]string{"method", "status"},
		),
		RunDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rootfind_run_duration_seconds",
				Help:    "Root-finding run duration in seconds",
				Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"method"},
		),
		Iterations: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rootfind_run_iterations",
				Help:    "Iterations per root-finding run",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000},
			},
			[]string{"method"},
		),
		InvalidTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "rootfind_invalid_requests_total",
				Help: "Total number of requests rejected before running",
			},
		),
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rootfind_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rootfind_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		registry: reg,
	}
}

// ObserveRun records a run report. Reports for requests that never reached a
// method count only as invalid.
func (m *Metrics) ObserveRun(rep *methods.Report, elapsed time.Duration) {
	if rep.Method == "" || rep.Columns == nil {
		m.InvalidTotal.Inc()
		return
	}
	method := string(rep.Method)
	m.RunsTotal.WithLabelValues(method, rep.Status.String()).Inc()
	m.RunDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	m.Iterations.WithLabelValues(method).Observe(float64(rep.Iterations))
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware creates a Gin middleware recording request counts and
// durations. Paths are the matched route patterns.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
