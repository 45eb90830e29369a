package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the service emits, registered once at startup
// and injected where needed.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Registry clients
	RegistryLookupsTotal   CounterVec
	RegistryLookupDuration HistogramVec

	// Cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Batch pipeline
	BatchJobsTotal    CounterVec
	BatchItemsTotal   CounterVec
	BatchJobDuration  HistogramVec
	BatchActiveWorker GaugeVec

	// Domain
	EmissionCalcsTotal  CounterVec
	InventoryRowsTotal  GaugeVec
	LedgerExportsTotal  CounterVec
	LedgerExportBytes   HistogramVec

	// Infrastructure
	DBQueryDuration   HistogramVec
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	defaultHTTPBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	defaultLookupBuckets = []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30}
	defaultBatchBuckets  = []float64{1, 5, 10, 30, 60, 120, 300, 600}
	defaultDBBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1}
	defaultSizeBuckets   = []float64{1024, 10240, 102400, 1048576, 10485760}
)

// NewAppMetrics registers all service metrics on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", defaultHTTPBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.RegistryLookupsTotal = collector.RegisterCounter("registry_lookups_total", "Registry lookups", "registry", "outcome")
	m.RegistryLookupDuration = collector.RegisterHistogram("registry_lookup_duration_seconds", "Registry lookup duration", defaultLookupBuckets, "registry")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	m.BatchJobsTotal = collector.RegisterCounter("batch_jobs_total", "Batch jobs processed", "status")
	m.BatchItemsTotal = collector.RegisterCounter("batch_items_total", "Batch items processed", "outcome")
	m.BatchJobDuration = collector.RegisterHistogram("batch_job_duration_seconds", "Batch job duration", defaultBatchBuckets)
	m.BatchActiveWorker = collector.RegisterGauge("batch_active_workers", "Active batch workers", "pool")

	m.EmissionCalcsTotal = collector.RegisterCounter("emission_calculations_total", "Emission calculations", "tier")
	m.InventoryRowsTotal = collector.RegisterGauge("inventory_rows_total", "Inventory rows", "inventory")
	m.LedgerExportsTotal = collector.RegisterCounter("ledger_exports_total", "Ledger exports", "status")
	m.LedgerExportBytes = collector.RegisterHistogram("ledger_export_bytes", "Ledger export size", defaultSizeBuckets)

	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", defaultDBBuckets, "operation")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// RecordHTTPRequest observes one completed HTTP request.
func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRegistryLookup observes one registry call.
// outcome is "found", "not_found", or "error".
func (m *AppMetrics) RecordRegistryLookup(registry, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RegistryLookupsTotal.WithLabelValues(registry, outcome).Inc()
	m.RegistryLookupDuration.WithLabelValues(registry).Observe(duration.Seconds())
}

// RecordCacheAccess observes one cache access.
func (m *AppMetrics) RecordCacheAccess(cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordBatchJob counts one batch job reaching a terminal status.
func (m *AppMetrics) RecordBatchJob(status string) {
	if m == nil {
		return
	}
	m.BatchJobsTotal.WithLabelValues(status).Inc()
}

// RecordBatchItem observes the outcome of a single batch item.
func (m *AppMetrics) RecordBatchItem(outcome string) {
	if m == nil {
		return
	}
	m.BatchItemsTotal.WithLabelValues(outcome).Inc()
}

// RecordEmissionCalculation counts one emission calculation by tier.
func (m *AppMetrics) RecordEmissionCalculation(tier string) {
	if m == nil {
		return
	}
	m.EmissionCalcsTotal.WithLabelValues(tier).Inc()
}

// RecordError counts an error by component and code.
func (m *AppMetrics) RecordError(component, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
