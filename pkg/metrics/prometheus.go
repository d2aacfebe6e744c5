// Package metrics provides Prometheus metrics for the StreamGem service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultLatencyBuckets are millisecond buckets sized for one upstream
// generative-search round trip (tens of ms to tens of seconds).
var defaultLatencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000} //nolint:gochecknoglobals // read-only defaults

// Manager manages all Prometheus metrics for the StreamGem service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Discovery pipeline
	discoveryRequests  *prometheus.CounterVec
	upstreamLatency    prometheus.Histogram
	candidatesReceived prometheus.Counter
	recordsDropped     *prometheus.CounterVec
	streamersEmitted   prometheus.Counter

	// Votes and leaderboard
	votes             prometheus.Counter
	votesDuplicate    prometheus.Counter
	offlineReports    prometheus.Counter
	offlineSuppressed prometheus.Counter
	leaderboardSize   prometheus.Gauge
	catalogSize       prometheus.Gauge

	// Repository
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "streamgem",
		subsystem:        "discovery",
		histogramBuckets: defaultLatencyBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.discoveryRequests = auto.NewCounterVec(
		m.counterOpts("requests_total", "Discovery requests by category and outcome (ok, empty, upstream_error, missing_credential)"),
		[]string{"category", "outcome"},
	)
	m.upstreamLatency = auto.NewHistogram(
		m.histogramOpts("upstream_latency_milliseconds", "Round trip to the generative search provider in milliseconds"),
	)
	m.candidatesReceived = auto.NewCounter(
		m.counterOpts("candidates_received_total", "Raw candidates decoded from upstream responses"),
	)
	m.recordsDropped = auto.NewCounterVec(
		m.counterOpts("records_dropped_total", "Candidates dropped during normalization, by reason"),
		[]string{"reason"},
	)
	m.streamersEmitted = auto.NewCounter(
		m.counterOpts("streamers_emitted_total", "Canonical streamer records handed to callers"),
	)

	m.votes = auto.NewCounter(m.counterOpts("votes_total", "Accepted upvotes"))
	m.votesDuplicate = auto.NewCounter(m.counterOpts("votes_duplicate_total", "Repeated upvotes from the same voter"))
	m.offlineReports = auto.NewCounter(m.counterOpts("offline_reports_total", "Channels reported offline"))
	m.offlineSuppressed = auto.NewCounter(m.counterOpts("offline_suppressed_total", "Streamers omitted from a batch because their channel was reported offline"))
	m.leaderboardSize = auto.NewGauge(m.gaugeOpts("leaderboard_size", "Streamers with at least one vote"))
	m.catalogSize = auto.NewGauge(m.gaugeOpts("catalog_size", "Streamers served by this process that can still be voted on"))

	m.repositoryUpdateLatency = auto.NewHistogram(
		m.histogramOpts("repository_update_latency_milliseconds", "Leaderboard update latency in milliseconds"),
	)
	m.repositoryQueryLatency = auto.NewHistogram(
		m.histogramOpts("repository_query_latency_milliseconds", "Leaderboard query latency in milliseconds"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that ended in an error"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"))
}

// Discovery Metrics Functions.

// RecordDiscoveryRequest counts one discovery call with its outcome.
func RecordDiscoveryRequest(category, outcome string) {
	globalManager.discoveryRequests.WithLabelValues(category, outcome).Inc()
}

// RecordUpstreamLatency records one provider round trip.
func RecordUpstreamLatency(latencyMs float64) {
	globalManager.upstreamLatency.Observe(latencyMs)
}

// RecordCandidatesReceived adds n decoded raw candidates.
func RecordCandidatesReceived(n int) {
	globalManager.candidatesReceived.Add(float64(n))
}

// RecordRecordDropped counts a candidate dropped for reason.
func RecordRecordDropped(reason string) {
	globalManager.recordsDropped.WithLabelValues(reason).Inc()
}

// RecordStreamersEmitted adds n emitted streamer records.
func RecordStreamersEmitted(n int) {
	globalManager.streamersEmitted.Add(float64(n))
}

// Vote Metrics Functions.

// RecordVote increments the accepted vote counter.
func RecordVote() {
	globalManager.votes.Inc()
}

// RecordDuplicateVote increments the duplicate vote counter.
func RecordDuplicateVote() {
	globalManager.votesDuplicate.Inc()
}

// RecordOfflineReport increments the offline report counter.
func RecordOfflineReport() {
	globalManager.offlineReports.Inc()
}

// RecordOfflineSuppressed adds n streamers suppressed from a batch.
func RecordOfflineSuppressed(n int) {
	globalManager.offlineSuppressed.Add(float64(n))
}

// UpdateLeaderboardSize sets the number of voted streamers.
func UpdateLeaderboardSize(n int) {
	globalManager.leaderboardSize.Set(float64(n))
}

// UpdateCatalogSize sets the number of votable streamers.
func UpdateCatalogSize(n int) {
	globalManager.catalogSize.Set(float64(n))
}

// Repository Metrics Functions.

// RecordRepositoryUpdateLatency records leaderboard update latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records leaderboard query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
