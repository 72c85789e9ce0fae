// Package metrics provides Prometheus metrics for the project leaderboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the leaderboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Leaderboard state
	projectsTotal  prometheus.Gauge
	projectsScored prometheus.Gauge
	schoolsTotal   prometheus.Gauge

	// Domain activity
	rankingsComputed    prometheus.Counter
	scoresSaved         prometheus.Counter
	reportsBuilt        *prometheus.CounterVec
	reportBuildDuration prometheus.Histogram

	// Store
	storeErrors       *prometheus.CounterVec
	storeQueryLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "partyrock",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric family
	auto := promauto.With(m.registry)

	m.projectsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projects_total",
		Help:      "Number of projects in the store",
	})

	m.projectsScored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projects_scored",
		Help:      "Number of projects that carry scores",
	})

	m.schoolsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "schools_total",
		Help:      "Number of distinct school names",
	})

	m.rankingsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rankings_computed_total",
		Help:      "Total number of filtered rankings computed",
	})

	m.scoresSaved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_saved_total",
		Help:      "Total number of score writes",
	})

	m.reportsBuilt = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "reports_built_total",
			Help:      "Total number of reports built by kind",
		},
		[]string{"kind"},
	)

	m.reportBuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_build_duration_milliseconds",
		Help:      "Histogram of report build time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_errors_total",
			Help:      "Total number of store errors by operation",
		},
		[]string{"op"},
	)

	m.storeQueryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_query_latency_milliseconds",
			Help:      "Store operation latency in milliseconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100},
		},
		[]string{"op"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint, method and type",
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// UpdateProjectCounts sets the project and school gauges.
func UpdateProjectCounts(total, scored, schools int) {
	globalManager.projectsTotal.Set(float64(total))
	globalManager.projectsScored.Set(float64(scored))
	globalManager.schoolsTotal.Set(float64(schools))
}

// RecordRankingComputed increments the rankings counter.
func RecordRankingComputed() {
	globalManager.rankingsComputed.Inc()
}

// RecordScoresSaved increments the score writes counter.
func RecordScoresSaved() {
	globalManager.scoresSaved.Inc()
}

// RecordReportBuilt records one report of the given kind and its build time.
func RecordReportBuilt(kind string, durationMs float64) {
	globalManager.reportsBuilt.WithLabelValues(kind).Inc()
	globalManager.reportBuildDuration.Observe(durationMs)
}

// RecordStoreError increments the store error counter for op.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordStoreLatency records the latency of a store operation.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeQueryLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
