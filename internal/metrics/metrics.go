// Package metrics exposes Prometheus collectors for dataset runs and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	tasksImported *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates a Metrics with its own registry, including Go and process collectors.
func New() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paddlelabel_runs_total",
			Help: "Total number of dataset import and export runs",
		},
		[]string{"kind", "format", "status"}, // kind: import, export; status: succeeded, failed
	)
	m.runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paddlelabel_run_duration_seconds",
			Help:    "Time taken by dataset runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
		},
		[]string{"kind", "format"},
	)
	m.tasksImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paddlelabel_tasks_imported_total",
			Help: "Total number of tasks created by imports",
		},
		[]string{"format"},
	)
	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paddlelabel_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	m.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paddlelabel_http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runsTotal, m.runDuration, m.tasksImported, m.httpRequests, m.httpDuration,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Default returns the process-wide Metrics, creating it on first use.
func Default() *Metrics {
	defaultOnce.Do(func() {
		m, err := New()
		if err != nil {
			panic(err)
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRun records a finished dataset run. tasks counts created tasks and
// is only recorded for successful imports.
func (m *Metrics) ObserveRun(kind, format, status string, d time.Duration, tasks int) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(kind, format, status).Inc()
	m.runDuration.WithLabelValues(kind, format).Observe(d.Seconds())
	if kind == "import" && status == "succeeded" && tasks > 0 {
		m.tasksImported.WithLabelValues(format).Add(float64(tasks))
	}
}

// ObserveHTTP records one served request. route is the matched route pattern.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
