// Package metrics provides Prometheus metrics for the raidstats query service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Query engine
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec

	// Memo cache
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheEntries   prometheus.Gauge

	// Snapshot store
	snapshotReloads        *prometheus.CounterVec
	snapshotReloadDuration prometheus.Histogram
	snapshotRows           prometheus.Gauge
	snapshotPlayers        prometheus.Gauge
	snapshotGeneration     prometheus.Gauge
	snapshotLastUnix       prometheus.Gauge

	// Warm-up queue and workers
	warmupQueueSize     prometheus.Gauge
	warmupQueueCapacity prometheus.Gauge
	warmupJobs          *prometheus.CounterVec
	warmupJobDuration   prometheus.Histogram
	warmupWorkers       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     *prometheus.CounterVec

	errors *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide collectors

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // collectors must exist before first use
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "raidstats",
		subsystem:        "engine",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.queries = m.counterVec("queries_total", "Queries answered, by kind and by whether the memo cache served them", "kind", "source")
	m.queryDuration = m.histogramVec("query_duration_milliseconds", "Time spent computing a query result", "kind")

	m.cacheHits = m.counter("cache_hits_total", "Memo cache hits")
	m.cacheMisses = m.counter("cache_misses_total", "Memo cache misses")
	m.cacheEvictions = m.counter("cache_evictions_total", "Entries evicted from the memo cache")
	m.cacheEntries = m.gauge("cache_entries", "Entries currently held by the memo cache")

	m.snapshotReloads = m.counterVec("snapshot_reloads_total", "Snapshot reload attempts by result", "result")
	m.snapshotReloadDuration = m.histogram("snapshot_reload_duration_milliseconds", "Time spent loading and publishing a snapshot", m.histogramBuckets)
	m.snapshotRows = m.gauge("snapshot_rows", "Rows in the published snapshot")
	m.snapshotPlayers = m.gauge("snapshot_players", "Players in the published snapshot")
	m.snapshotGeneration = m.gauge("snapshot_generation", "Generation number of the published snapshot")
	m.snapshotLastUnix = m.gauge("snapshot_last_published_unix", "Unix time of the last published snapshot")

	m.warmupQueueSize = m.gauge("warmup_queue_size", "Pending warm-up jobs")
	m.warmupQueueCapacity = m.gauge("warmup_queue_capacity", "Warm-up queue capacity")
	m.warmupJobs = m.counterVec("warmup_jobs_total", "Warm-up jobs by result", "result")
	m.warmupJobDuration = m.histogram("warmup_job_duration_milliseconds", "Time spent on a warm-up job", m.histogramBuckets)
	m.warmupWorkers = m.gauge("warmup_workers", "Warm-up workers running")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.httpRateLimited = m.counterVec("http_rate_limited_total", "Requests rejected by the rate limiter", "endpoint")

	m.errors = m.counterVec("errors_total", "Errors by component and type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordQuery counts a query answered from source ("cache" or "computed").
func RecordQuery(kind, source string) {
	globalManager.queries.WithLabelValues(kind, source).Inc()
}

// RecordQueryDuration records the compute time of a query in milliseconds.
func RecordQueryDuration(kind string, ms float64) {
	globalManager.queryDuration.WithLabelValues(kind).Observe(ms)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() { globalManager.cacheHits.Inc() }

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() { globalManager.cacheMisses.Inc() }

// RecordCacheEviction increments the eviction counter.
func RecordCacheEviction() { globalManager.cacheEvictions.Inc() }

// UpdateCacheEntries sets the number of cached entries.
func UpdateCacheEntries(n int) { globalManager.cacheEntries.Set(float64(n)) }

// RecordSnapshotReload counts a reload attempt ("ok" or "error").
func RecordSnapshotReload(result string) {
	globalManager.snapshotReloads.WithLabelValues(result).Inc()
}

// RecordSnapshotReloadDuration records reload time in milliseconds.
func RecordSnapshotReloadDuration(ms float64) { globalManager.snapshotReloadDuration.Observe(ms) }

// UpdateSnapshot publishes the shape of the current snapshot.
func UpdateSnapshot(generation uint64, rows, players int, publishedUnix float64) {
	globalManager.snapshotGeneration.Set(float64(generation))
	globalManager.snapshotRows.Set(float64(rows))
	globalManager.snapshotPlayers.Set(float64(players))
	globalManager.snapshotLastUnix.Set(publishedUnix)
}

// UpdateWarmupQueue sets warm-up queue size and capacity.
func UpdateWarmupQueue(size, capacity int) {
	globalManager.warmupQueueSize.Set(float64(size))
	globalManager.warmupQueueCapacity.Set(float64(capacity))
}

// RecordWarmupJob counts a finished warm-up job and its duration.
func RecordWarmupJob(result string, ms float64) {
	globalManager.warmupJobs.WithLabelValues(result).Inc()
	globalManager.warmupJobDuration.Observe(ms)
}

// UpdateWarmupWorkers sets the number of running warm-up workers.
func UpdateWarmupWorkers(n int) { globalManager.warmupWorkers.Set(float64(n)) }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(endpoint string) {
	globalManager.httpRateLimited.WithLabelValues(endpoint).Inc()
}

// RecordError records an error with component and type labels.
func RecordError(component, errorType string) {
	globalManager.errors.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
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
