package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/mobelhaus/showroom-backend/pkg/metrics"
	"github.com/mobelhaus/showroom-backend/pkg/redis"
	"go.uber.org/multierr"
)

// Mirror is the durable side of a cache region. The in-memory map is the
// source of truth for freshness; the mirror only serves cold starts and is
// written best-effort. *redis.Client satisfies it.
type Mirror interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(region, key string) string
}

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// Region is one named TTL cache. Entries are evicted lazily on read; a
// mirror, when attached, is consulted only when memory has no live entry.
// Reads and writes may come from any request goroutine, so the map is
// guarded even though each region sees little contention.
type Region[T any] struct {
	name    string
	ttl     time.Duration
	metrics *metrics.CacheMetrics

	mu      sync.RWMutex
	entries map[string]cacheEntry[T]

	mirror Mirror
	now    func() time.Time
}

// NewRegion builds an in-memory region with the given TTL.
func NewRegion[T any](name string, ttl time.Duration, m *metrics.CacheMetrics) *Region[T] {
	return &Region[T]{
		name:    name,
		ttl:     ttl,
		metrics: m,
		entries: make(map[string]cacheEntry[T]),
		now:     time.Now,
	}
}

// WithMirror attaches a durable mirror to the region.
func (r *Region[T]) WithMirror(mirror Mirror) *Region[T] {
	r.mirror = mirror
	return r
}

// WithClock overrides the time source.
func (r *Region[T]) WithClock(now func() time.Time) *Region[T] {
	r.now = now
	return r
}

// Name returns the region name used for keys and metrics.
func (r *Region[T]) Name() string {
	return r.name
}

// Get returns a live entry. Expired entries are evicted on the spot. On a
// cold miss the mirror is consulted; a mirror hit is promoted back into
// memory with a fresh TTL.
func (r *Region[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T

	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()

	if ok {
		if r.now().Before(entry.expiresAt) {
			r.metrics.IncHit(r.name)
			return entry.value, true
		}
		r.mu.Lock()
		delete(r.entries, key)
		r.mu.Unlock()
		r.metrics.IncEviction(r.name)
	}

	if r.mirror != nil {
		raw, err := r.mirror.Get(ctx, r.mirror.CacheKey(r.name, key))
		if err == nil {
			var value T
			if unmarshalErr := json.Unmarshal([]byte(raw), &value); unmarshalErr == nil {
				r.mu.Lock()
				r.entries[key] = cacheEntry[T]{value: value, expiresAt: r.now().Add(r.ttl)}
				r.mu.Unlock()
				r.metrics.IncHit(r.name)
				return value, true
			}
		}
	}

	r.metrics.IncMiss(r.name)
	return zero, false
}

// Set stores the entry in memory and, best-effort, in the mirror.
func (r *Region[T]) Set(ctx context.Context, key string, value T) {
	r.mu.Lock()
	r.entries[key] = cacheEntry[T]{value: value, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()

	if r.mirror != nil {
		if raw, err := json.Marshal(value); err == nil {
			// mirror write failures leave memory authoritative
			_ = r.mirror.Set(ctx, r.mirror.CacheKey(r.name, key), string(raw), r.ttl)
		}
	}
}

// Update applies fn to every live entry in place without touching its
// expiry. Used to refresh derived fields (like a total count) across
// already-cached pages.
func (r *Region[T]) Update(ctx context.Context, fn func(key string, value *T)) {
	r.mu.Lock()
	now := r.now()
	updated := make(map[string]T, len(r.entries))
	for key, entry := range r.entries {
		if !now.Before(entry.expiresAt) {
			continue
		}
		fn(key, &entry.value)
		r.entries[key] = entry
		updated[key] = entry.value
	}
	r.mu.Unlock()

	if r.mirror != nil {
		for key, value := range updated {
			if raw, err := json.Marshal(value); err == nil {
				_ = r.mirror.Set(ctx, r.mirror.CacheKey(r.name, key), string(raw), r.ttl)
			}
		}
	}
}

// Invalidate drops the given keys from memory and the mirror.
func (r *Region[T]) Invalidate(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	for _, key := range keys {
		delete(r.entries, key)
	}
	r.mu.Unlock()

	if r.mirror == nil || len(keys) == 0 {
		return nil
	}
	mirrorKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		mirrorKeys = append(mirrorKeys, r.mirror.CacheKey(r.name, key))
	}
	if err := r.mirror.Del(ctx, mirrorKeys...); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// InvalidateAll drops every entry the region currently tracks.
func (r *Region[T]) InvalidateAll(ctx context.Context) error {
	r.mu.Lock()
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	r.entries = make(map[string]cacheEntry[T])
	r.mu.Unlock()

	if r.mirror == nil || len(keys) == 0 {
		return nil
	}
	var errs error
	mirrorKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		mirrorKeys = append(mirrorKeys, r.mirror.CacheKey(r.name, key))
	}
	if err := r.mirror.Del(ctx, mirrorKeys...); err != nil && !errors.Is(err, redis.Nil) {
		errs = multierr.Append(errs, err)
	}
	return errs
}

// Len reports the number of tracked entries, expired ones included.
func (r *Region[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
