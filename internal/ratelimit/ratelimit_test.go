package ratelimit

import (
	"testing"
	"time"
)

func TestAllowEnforcesBurstPerKey(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("expected the fourth request to be rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("expected another client to have its own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("10.0.0.1") {
		t.Error("expected a token to be refilled after one second")
	}
}

func TestEvictIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("idle")
	now = now.Add(2 * time.Minute)
	rl.Allow("active")

	now = now.Add(2 * time.Minute)
	rl.evictIdle()

	if _, ok := rl.clients["idle"]; ok {
		t.Error("expected idle client to be evicted")
	}
	if _, ok := rl.clients["active"]; !ok {
		t.Error("expected active client to be kept")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Stop()
	rl.Stop()
}
