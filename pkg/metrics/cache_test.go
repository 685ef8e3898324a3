package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCacheMetricsNilSafe(t *testing.T) {
	var m *CacheMetrics
	m.IncHit("catalog")
	m.IncMiss("catalog")
	m.IncEviction("catalog")
	m.IncRetry("fetch_products")

	unregistered := NewCacheMetrics(nil)
	unregistered.IncHit("catalog")
}

func TestCacheMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCacheMetrics(reg)

	m.IncHit("product")
	m.IncHit("product")
	m.IncMiss("product")
	m.IncEviction("")
	m.IncRetry("fetch_catalog")

	if got := testutil.ToFloat64(m.hits.WithLabelValues("product")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.misses.WithLabelValues("product")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.evictions.WithLabelValues("unknown")); got != 1 {
		t.Errorf("empty region should normalize to unknown, got %v", got)
	}
	if got := testutil.ToFloat64(m.retries.WithLabelValues("fetch_catalog")); got != 1 {
		t.Errorf("retries = %v, want 1", got)
	}
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var m *CronJobMetrics
	m.ObserveDuration("catalog_warm", time.Second)
	m.IncSuccess("catalog_warm")
	m.IncFailure("catalog_warm")

	unregistered := NewCronJobMetrics(nil)
	unregistered.IncSuccess("catalog_warm")
}

func TestCronJobMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.IncSuccess("catalog_warm")
	m.IncFailure("catalog_warm")
	m.ObserveDuration("catalog_warm", 250*time.Millisecond)

	if got := testutil.ToFloat64(m.success.WithLabelValues("catalog_warm")); got != 1 {
		t.Errorf("success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("catalog_warm")); got != 1 {
		t.Errorf("failure = %v, want 1", got)
	}
}
