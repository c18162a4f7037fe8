package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Browser controller metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	Running           *prometheus.GaugeVec
	Exits             *prometheus.CounterVec
	ResetBytes        *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds counters mirrored for the JSON status endpoint.
type Snapshot struct {
	TotalRequests   int64 `json:"total_requests"`
	TotalErrors     int64 `json:"total_errors"`
	TotalOperations int64 `json:"total_operations"`
	FailedOps       int64 `json:"failed_operations"`
}

// NewMetrics creates a new metrics collector on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browserctl_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "browserctl_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browserctl_browser_operations_total",
				Help: "Controller operations by outcome",
			},
			[]string{"op", "kind", "result"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "browserctl_browser_operation_duration_seconds",
				Help:    "Controller operation duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"op", "kind"},
		),
		Running: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "browserctl_browser_running",
				Help: "1 while the controller tracks a running instance of the kind",
			},
			[]string{"kind"},
		),
		Exits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browserctl_browser_exits_total",
				Help: "Process exit notifications by reason",
			},
			[]string{"kind", "reason"},
		),
		ResetBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "browserctl_profile_reset_bytes_total",
				Help: "Bytes of profile data removed by resets",
			},
			[]string{"kind"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "browserctl_uptime_seconds",
			Help: "Server uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordOperation records the outcome of a controller operation
func (m *Metrics) RecordOperation(op, kind, result string, duration time.Duration) {
	m.Operations.WithLabelValues(op, kind, result).Inc()
	m.OperationDuration.WithLabelValues(op, kind).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalOperations++
	if result != "ok" {
		m.snapshot.FailedOps++
	}
	m.mu.Unlock()
}

// SetRunning flips the running gauge for a kind
func (m *Metrics) SetRunning(kind string, running bool) {
	v := 0.0
	if running {
		v = 1
	}
	m.Running.WithLabelValues(kind).Set(v)
}

// RecordExit counts a process exit notification
func (m *Metrics) RecordExit(kind, reason string) {
	m.Exits.WithLabelValues(kind, reason).Inc()
}

// AddResetBytes accumulates removed profile bytes
func (m *Metrics) AddResetBytes(kind string, bytes int64) {
	if bytes > 0 {
		m.ResetBytes.WithLabelValues(kind).Add(float64(bytes))
	}
}

// Snapshot returns a copy of the mirrored counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// UptimeSeconds returns seconds since the metrics were created
func (m *Metrics) UptimeSeconds() float64 {
	return time.Since(m.startTime).Seconds()
}
