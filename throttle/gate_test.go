package throttle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestGate_Allow(t *testing.T) {
	ctx := context.Background()
	policies := []Policy{{Name: "user", Limit: 3, Window: time.Minute}}

	t.Run("Allows up to the limit", func(t *testing.T) {
		gate := CreateGate(CreateMemoryStore(), policies)
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		gate.SetClock(fixedClock(&now))

		for i := 0; i < 3; i++ {
			if err := gate.Allow(ctx, "client-1"); err != nil {
				t.Fatalf("Call %d should be allowed, got %v", i+1, err)
			}
			now = now.Add(time.Second)
		}
	})

	t.Run("Rejects the call over the limit", func(t *testing.T) {
		gate := CreateGate(CreateMemoryStore(), policies)
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		gate.SetClock(fixedClock(&now))

		for i := 0; i < 3; i++ {
			if err := gate.Allow(ctx, "client-2"); err != nil {
				t.Fatalf("Call %d should be allowed, got %v", i+1, err)
			}
		}

		err := gate.Allow(ctx, "client-2")
		var rateErr *RateLimitError
		if !errors.As(err, &rateErr) {
			t.Fatalf("Fourth call should fail with RateLimitError, got %v", err)
		}
		if rateErr.Scope != "user" {
			t.Errorf("Scope = %s, want user", rateErr.Scope)
		}
		if rateErr.RetryAfter > time.Minute || rateErr.RetryAfter < 0 {
			t.Errorf("RetryAfter = %v, want within [0, 60s]", rateErr.RetryAfter)
		}
	})

	t.Run("Window slides past the first call", func(t *testing.T) {
		gate := CreateGate(CreateMemoryStore(), policies)
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		gate.SetClock(fixedClock(&now))

		for i := 0; i < 3; i++ {
			if err := gate.Allow(ctx, "client-3"); err != nil {
				t.Fatalf("Call %d should be allowed, got %v", i+1, err)
			}
		}
		if err := gate.Allow(ctx, "client-3"); err == nil {
			t.Fatal("Fourth call inside the window should be rejected")
		}

		now = now.Add(61 * time.Second)
		if err := gate.Allow(ctx, "client-3"); err != nil {
			t.Errorf("Call after the window elapsed should be allowed, got %v", err)
		}
	})

	t.Run("Clients are isolated", func(t *testing.T) {
		gate := CreateGate(CreateMemoryStore(), policies)
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		gate.SetClock(fixedClock(&now))

		for i := 0; i < 3; i++ {
			if err := gate.Allow(ctx, "client-a"); err != nil {
				t.Fatalf("client-a call %d failed: %v", i+1, err)
			}
		}
		if err := gate.Allow(ctx, "client-b"); err != nil {
			t.Errorf("client-b should not share client-a quota, got %v", err)
		}
	})

	t.Run("First exhausted scope wins", func(t *testing.T) {
		multi := []Policy{
			{Name: "burst", Limit: 1, Window: time.Minute},
			{Name: "sustained", Limit: 100, Window: time.Hour},
		}
		gate := CreateGate(CreateMemoryStore(), multi)
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		gate.SetClock(fixedClock(&now))

		if err := gate.Allow(ctx, "client-m"); err != nil {
			t.Fatalf("First call failed: %v", err)
		}

		err := gate.Allow(ctx, "client-m")
		var rateErr *RateLimitError
		if !errors.As(err, &rateErr) {
			t.Fatalf("Expected RateLimitError, got %v", err)
		}
		if rateErr.Scope != "burst" {
			t.Errorf("Scope = %s, want burst", rateErr.Scope)
		}
	})

	t.Run("No scopes means no gating", func(t *testing.T) {
		gate := CreateGate(CreateMemoryStore(), nil)
		for i := 0; i < 50; i++ {
			if err := gate.Allow(ctx, "client-x"); err != nil {
				t.Fatalf("Ungated call failed: %v", err)
			}
		}
	})
}

func TestGate_ConcurrentLastSlot(t *testing.T) {
	// With one slot left, concurrent callers must not both get in.
	policies := []Policy{{Name: "user", Limit: 1, Window: time.Minute}}
	gate := CreateGate(CreateMemoryStore(), policies)

	const callers = 16
	var wg sync.WaitGroup
	allowed := make(chan struct{}, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gate.Allow(context.Background(), "client-race"); err == nil {
				allowed <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(allowed)

	if n := len(allowed); n != 1 {
		t.Errorf("%d callers were allowed, want exactly 1", n)
	}
}
