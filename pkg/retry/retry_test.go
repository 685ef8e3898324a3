package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := Do(t.Context(), Config{Attempts: 2, BaseDelay: time.Millisecond}, func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("result = %q, want ok", got)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	calls := 0
	retries := []int{}
	cfg := Config{
		Attempts:  2,
		BaseDelay: time.Millisecond,
		OnRetry:   func(attempt int, err error) { retries = append(retries, attempt) },
	}
	got, err := Do(t.Context(), cfg, func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("result = %d, want 42", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (1 initial + 2 retries)", calls)
	}
	if len(retries) != 2 || retries[0] != 1 || retries[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", retries)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	sentinel := errors.New("store down")
	_, err := Do(t.Context(), Config{Attempts: 2, BaseDelay: time.Millisecond}, func(ctx context.Context) (int, error) {
		calls++
		return 0, sentinel
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error = %v, want wrapped %v", err, sentinel)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	calls := 0
	_, err := Do(ctx, Config{Attempts: 5, BaseDelay: 50 * time.Millisecond}, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("transient")
	})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestLinearBackoffGrows(t *testing.T) {
	b := linearBackoff(300 * time.Millisecond)
	first, _ := b.Next()
	second, _ := b.Next()
	if first != 300*time.Millisecond {
		t.Errorf("first wait = %v, want 300ms", first)
	}
	if second != 600*time.Millisecond {
		t.Errorf("second wait = %v, want 600ms", second)
	}
}
