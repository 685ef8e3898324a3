package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics tracks hit/miss/eviction rates per cache region plus the
// retry attempts the read path had to spend.
type CacheMetrics struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	evictions *prometheus.CounterVec
	retries   *prometheus.CounterVec
}

// NewCacheMetrics registers the cache metrics on the provided registerer.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	if reg == nil {
		return &CacheMetrics{}
	}
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Cache hits per region.",
	}, []string{"region"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Cache misses per region.",
	}, []string{"region"})
	evictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_evictions_total",
		Help: "Expired entries evicted per region.",
	}, []string{"region"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "read_retry_attempts_total",
		Help: "Retry attempts spent by read operations.",
	}, []string{"operation"})
	reg.MustRegister(hits, misses, evictions, retries)
	return &CacheMetrics{
		hits:      hits,
		misses:    misses,
		evictions: evictions,
		retries:   retries,
	}
}

// IncHit increments the hit counter for the named region.
func (c *CacheMetrics) IncHit(region string) {
	if c == nil || c.hits == nil {
		return
	}
	c.hits.WithLabelValues(normalizeLabel(region)).Inc()
}

// IncMiss increments the miss counter for the named region.
func (c *CacheMetrics) IncMiss(region string) {
	if c == nil || c.misses == nil {
		return
	}
	c.misses.WithLabelValues(normalizeLabel(region)).Inc()
}

// IncEviction increments the eviction counter for the named region.
func (c *CacheMetrics) IncEviction(region string) {
	if c == nil || c.evictions == nil {
		return
	}
	c.evictions.WithLabelValues(normalizeLabel(region)).Inc()
}

// IncRetry increments the retry counter for the named operation.
func (c *CacheMetrics) IncRetry(operation string) {
	if c == nil || c.retries == nil {
		return
	}
	c.retries.WithLabelValues(normalizeLabel(operation)).Inc()
}
