// Package metrics provides Prometheus metrics for the dynasty board service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	boardBuilds        *prometheus.CounterVec
	identitiesResolved prometheus.Gauge
	identityDropped    prometheus.Counter
	clusteringDuration prometheus.Histogram
	clusteringFailures prometheus.Counter
	selectedTierCount  *prometheus.GaugeVec

	// Roster fetch metrics
	snapshotFetches   prometheus.Counter
	snapshotCacheHits prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "dynasty",
		subsystem:        "board",
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
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.boardBuilds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "builds_total",
		Help:      "Boards built, by position",
	}, []string{"position"})

	m.identitiesResolved = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identities_resolved",
		Help:      "Players in the canonical identity mapping after the last pass",
	})

	m.identityDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identity_rows_dropped_total",
		Help:      "Identity source rows dropped as unresolvable",
	})

	m.clusteringDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clustering_duration_milliseconds",
		Help:      "Wall time of one position's tier clustering",
		Buckets:   m.histogramBuckets,
	})

	m.clusteringFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clustering_failures_total",
		Help:      "Tier clustering attempts that failed as degenerate",
	})

	m.selectedTierCount = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "selected_tier_count",
		Help:      "Tier count selected by BIC, by position",
	}, []string{"position"})

	m.snapshotFetches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_snapshot_fetches_total",
		Help:      "Roster snapshot fetches against the platform API",
	})

	m.snapshotCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_snapshot_cache_hits_total",
		Help:      "Roster snapshot requests served from the document cache",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// RecordBoardBuild increments the build counter for a position.
func RecordBoardBuild(position string) {
	globalManager.boardBuilds.WithLabelValues(position).Inc()
}

// UpdateIdentitiesResolved sets the size of the canonical identity mapping.
func UpdateIdentitiesResolved(count int) {
	globalManager.identitiesResolved.Set(float64(count))
}

// RecordIdentityDropped counts identity rows dropped as unresolvable.
func RecordIdentityDropped(count int) {
	globalManager.identityDropped.Add(float64(count))
}

// RecordClusteringDuration records one clustering pass in milliseconds.
func RecordClusteringDuration(ms float64) {
	globalManager.clusteringDuration.Observe(ms)
}

// RecordClusteringFailure counts a degenerate clustering attempt.
func RecordClusteringFailure() {
	globalManager.clusteringFailures.Inc()
}

// UpdateSelectedTierCount sets the BIC-selected tier count for a position.
func UpdateSelectedTierCount(position string, k int) {
	globalManager.selectedTierCount.WithLabelValues(position).Set(float64(k))
}

// RecordSnapshotFetch counts a roster snapshot fetch.
func RecordSnapshotFetch() {
	globalManager.snapshotFetches.Inc()
}

// RecordSnapshotCacheHit counts a snapshot served from cache.
func RecordSnapshotCacheHit() {
	globalManager.snapshotCacheHits.Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// GetRegistry returns the registry backing the global manager, for serving
// the /metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
