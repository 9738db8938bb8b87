// Package metrics provides Prometheus metrics for the sourcing and QA service.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "sourceqa"
	subsystem = "engine"

	defaultRuntimeInterval = 10 * time.Second
)

// latencyBuckets cover sheet API round trips, which run from tens of
// milliseconds to several seconds.
var latencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30} //nolint:gochecknoglobals // bucket layout

// Manager owns every collector of the service.
type Manager struct {
	histogramBuckets []float64
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Tabular source
	tableReadLatency  *prometheus.HistogramVec
	tableWriteLatency *prometheus.HistogramVec
	tableErrors       *prometheus.CounterVec

	// Engine
	linkLookups   *prometheus.CounterVec
	pathsBuilt    prometheus.Counter
	pathSize      prometheus.Histogram
	rowsWritten   *prometheus.CounterVec
	writeFailures *prometheus.CounterVec
	statUpdates   *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec

	// Events
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	eventsEnqueued  prometheus.Counter
	eventsDropped   *prometheus.CounterVec
	eventsPublished prometheus.Counter
	publishErrors   prometheus.Counter

	errorsByComponent *prometheus.CounterVec

	// Runtime
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry), WithHistogramBuckets(latencyBuckets))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_seconds", "HTTP request duration in seconds",
		m.histogramBuckets, "endpoint", "method", "status_code")
	m.httpErrors = m.counterVec("http_errors_total", "HTTP responses with a 4xx or 5xx status", "endpoint", "method", "error_type")

	m.tableReadLatency = m.histogramVec("table_read_duration_seconds", "Full-range sheet read latency", m.histogramBuckets, "sheet")
	m.tableWriteLatency = m.histogramVec("table_write_duration_seconds", "Single row write latency", m.histogramBuckets, "sheet")
	m.tableErrors = m.counterVec("table_errors_total", "Failed sheet operations", "sheet", "op")

	m.linkLookups = m.counterVec("link_lookups_total", "Link lookups by outcome", "mode", "outcome")
	m.pathsBuilt = m.counter("qa_paths_built_total", "QA review paths returned")
	m.pathSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "qa_path_size",
		Help:      "Number of candidates in a built QA path",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
	m.rowsWritten = m.counterVec("rows_written_total", "Candidate rows written", "mode")
	m.writeFailures = m.counterVec("write_failures_total", "Candidate writes stopped by a row failure", "mode")
	m.statUpdates = m.counterVec("stat_updates_total", "Daily stat updates", "kind")
	m.storeLatency = m.histogramVec("store_duration_seconds", "Relational store operation latency", m.histogramBuckets, "op")

	m.queueSize = m.gauge("event_queue_size", "Events waiting to be relayed")
	m.queueCapacity = m.gauge("event_queue_capacity", "Maximum queued events")
	m.eventsEnqueued = m.counter("events_enqueued_total", "Candidate events accepted by the queue")
	m.eventsDropped = m.counterVec("events_dropped_total", "Candidate events refused by the queue", "reason")
	m.eventsPublished = m.counter("events_published_total", "Candidate events handed to the broker")
	m.publishErrors = m.counter("event_publish_errors_total", "Candidate events the broker refused")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records a failed HTTP response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordTableRead records a sheet read.
func RecordTableRead(sheet string, d time.Duration, err error) {
	globalManager.tableReadLatency.WithLabelValues(sheet).Observe(d.Seconds())
	if err != nil {
		globalManager.tableErrors.WithLabelValues(sheet, "read").Inc()
	}
}

// RecordTableWrite records a sheet row write.
func RecordTableWrite(sheet string, d time.Duration, err error) {
	globalManager.tableWriteLatency.WithLabelValues(sheet).Observe(d.Seconds())
	if err != nil {
		globalManager.tableErrors.WithLabelValues(sheet, "write").Inc()
	}
}

// RecordLinkLookup counts a link lookup outcome, e.g. "ok" or "not_found".
func RecordLinkLookup(mode, outcome string) {
	globalManager.linkLookups.WithLabelValues(mode, outcome).Inc()
}

// RecordPathBuilt records a returned QA path of size candidates.
func RecordPathBuilt(size int) {
	globalManager.pathsBuilt.Inc()
	globalManager.pathSize.Observe(float64(size))
}

// RecordRowsWritten adds n written rows for mode.
func RecordRowsWritten(mode string, n int) {
	globalManager.rowsWritten.WithLabelValues(mode).Add(float64(n))
}

// RecordWriteFailure counts a candidate write stopped by a failing row.
func RecordWriteFailure(mode string) {
	globalManager.writeFailures.WithLabelValues(mode).Inc()
}

// RecordStatUpdate counts a daily stat change of kind "sourced" or "reviewed".
func RecordStatUpdate(kind string) {
	globalManager.statUpdates.WithLabelValues(kind).Inc()
}

// RecordStoreLatency records a relational store operation.
func RecordStoreLatency(op string, d time.Duration) {
	globalManager.storeLatency.WithLabelValues(op).Observe(d.Seconds())
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordEventEnqueued counts an accepted event.
func RecordEventEnqueued() {
	globalManager.eventsEnqueued.Inc()
}

// RecordEventDropped counts a refused event.
func RecordEventDropped(reason string) {
	globalManager.eventsDropped.WithLabelValues(reason).Inc()
}

// RecordEventPublished counts an event handed to the broker.
func RecordEventPublished() {
	globalManager.eventsPublished.Inc()
}

// RecordPublishError counts an event the broker refused.
func RecordPublishError() {
	globalManager.publishErrors.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
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

// CollectRuntime samples memory, goroutines and the latest GC pause once.
func CollectRuntime() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	UpdateSystemMemoryUsage(ms.HeapInuse)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if ms.NumGC > 0 {
		pause := ms.PauseNs[(ms.NumGC+255)%256]
		RecordSystemGCPauseTime(float64(pause) / float64(time.Millisecond))
	}
}

// RunRuntimeCollector samples runtime gauges every interval until ctx ends.
func RunRuntimeCollector(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRuntimeInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	CollectRuntime()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			CollectRuntime()
		}
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
