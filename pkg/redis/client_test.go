package redis

import (
	"strings"
	"testing"
	"time"

	"github.com/mobelhaus/showroom-backend/pkg/config"
)

func TestBuildOptions(t *testing.T) {
	t.Run("requires url or address", func(t *testing.T) {
		_, err := buildOptions(config.RedisConfig{})
		if err == nil {
			t.Fatal("expected error for empty config")
		}
	})

	t.Run("parses url", func(t *testing.T) {
		opts, err := buildOptions(config.RedisConfig{
			URL:      "redis://:secret@localhost:6380/3",
			PoolSize: 15,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.Addr != "localhost:6380" {
			t.Errorf("addr = %q, want localhost:6380", opts.Addr)
		}
		if opts.Password != "secret" {
			t.Errorf("password = %q, want secret", opts.Password)
		}
		if opts.DB != 3 {
			t.Errorf("db = %d, want 3", opts.DB)
		}
		if opts.PoolSize != 15 {
			t.Errorf("pool size = %d, want 15", opts.PoolSize)
		}
	})

	t.Run("rejects malformed url", func(t *testing.T) {
		_, err := buildOptions(config.RedisConfig{URL: "http://not-redis"})
		if err == nil {
			t.Fatal("expected error for non-redis scheme")
		}
	})

	t.Run("falls back to address fields", func(t *testing.T) {
		opts, err := buildOptions(config.RedisConfig{
			Address:     "cache.internal:6379",
			Password:    "pw",
			DB:          1,
			DialTimeout: 2 * time.Second,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.Addr != "cache.internal:6379" {
			t.Errorf("addr = %q", opts.Addr)
		}
		if opts.DB != 1 {
			t.Errorf("db = %d, want 1", opts.DB)
		}
		if opts.DialTimeout != 2*time.Second {
			t.Errorf("dial timeout = %v", opts.DialTimeout)
		}
	})
}

func TestKeyBuilders(t *testing.T) {
	c := &Client{}

	if got := c.CacheKey("floor_sample_page", "1:12"); got != "mh:cache:floor_sample_page:1:12" {
		t.Errorf("CacheKey = %q", got)
	}
	if got := c.LockKey("cron:catalog_warm"); got != "mh:lock:cron:catalog_warm" {
		t.Errorf("LockKey = %q", got)
	}
	if got := c.CacheKey("", "total_count"); strings.Contains(got, "::") {
		t.Errorf("empty region should be skipped, got %q", got)
	}
}

func TestClientRequiresStore(t *testing.T) {
	c := &Client{}
	if err := c.Set(t.Context(), "k", "v", time.Minute); err == nil {
		t.Error("Set on uninitialized client should fail")
	}
	if _, err := c.Get(t.Context(), "k"); err == nil {
		t.Error("Get on uninitialized client should fail")
	}
	if err := c.Ping(t.Context()); err == nil {
		t.Error("Ping on uninitialized client should fail")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on uninitialized client should be a no-op, got %v", err)
	}
}
