package prometheus

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	collector, err := NewMetricsCollector(CollectorConfig{Namespace: "chemreg"}, logging.NewNopLogger())
	require.NoError(t, err)
	return collector
}

func scrape(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	recorder := httptest.NewRecorder()
	collector.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(recorder.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewMetricsCollectorRequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestCounterAppearsInScrape(t *testing.T) {
	collector := newTestCollector(t)

	counter := collector.RegisterCounter("registry_lookups_total", "Registry lookups", "registry", "outcome")
	counter.WithLabelValues("kosha", "found").Inc()
	counter.WithLabelValues("kosha", "found").Inc()
	counter.WithLabelValues("keco", "not_found").Inc()

	body := scrape(t, collector)
	assert.Contains(t, body, `chemreg_registry_lookups_total{outcome="found",registry="kosha"} 2`)
	assert.Contains(t, body, `chemreg_registry_lookups_total{outcome="not_found",registry="keco"} 1`)
}

func TestDuplicateRegistrationReturnsSameVec(t *testing.T) {
	collector := newTestCollector(t)

	first := collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	second := collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")

	first.WithLabelValues("registry").Inc()
	second.WithLabelValues("registry").Inc()

	body := scrape(t, collector)
	assert.Contains(t, body, `chemreg_cache_hits_total{cache="registry"} 2`)
}

func TestGaugeSetAndDec(t *testing.T) {
	collector := newTestCollector(t)

	gauge := collector.RegisterGauge("batch_active_workers", "Active workers", "pool")
	gauge.WithLabelValues("default").Set(5)
	gauge.WithLabelValues("default").Dec()

	body := scrape(t, collector)
	assert.Contains(t, body, `chemreg_batch_active_workers{pool="default"} 4`)
}

func TestHistogramObserve(t *testing.T) {
	collector := newTestCollector(t)

	hist := collector.RegisterHistogram("registry_lookup_duration_seconds", "Lookup duration", []float64{1, 10}, "registry")
	hist.WithLabelValues("kosha").Observe(0.5)
	hist.WithLabelValues("kosha").Observe(5)

	body := scrape(t, collector)
	assert.Contains(t, body, `chemreg_registry_lookup_duration_seconds_bucket{registry="kosha",le="1"} 1`)
	assert.Contains(t, body, `chemreg_registry_lookup_duration_seconds_count{registry="kosha"} 2`)
}

func TestTimerObservesElapsed(t *testing.T) {
	collector := newTestCollector(t)
	hist := collector.RegisterHistogram("db_query_duration_seconds", "Query duration", []float64{10})

	timer := NewTimer(hist.WithLabelValues())
	time.Sleep(time.Millisecond)
	timer.ObserveDuration()

	body := scrape(t, collector)
	assert.Contains(t, body, `chemreg_db_query_duration_seconds_count 1`)
}
