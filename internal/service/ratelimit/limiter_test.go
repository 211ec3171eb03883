package ratelimit

import (
	"testing"
	"time"
)

func TestAllowConsumesTokens(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if !l.Allow("p1", 3, 1) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("p1", 3, 1) {
		t.Fatalf("bucket exhausted, request should be denied")
	}
}

func TestRefill(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	if !l.Allow("p1", 1, 2) {
		t.Fatalf("first request should be allowed")
	}
	if l.Allow("p1", 1, 2) {
		t.Fatalf("empty bucket should deny")
	}
	now = now.Add(500 * time.Millisecond)
	if !l.Allow("p1", 1, 2) {
		t.Fatalf("half second at 2/s should refill one token")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	l := NewWithClock(func() time.Time { return now })

	if !l.Allow("a", 1, 1) {
		t.Fatalf("key a should be allowed")
	}
	if !l.Allow("b", 1, 1) {
		t.Fatalf("key b should have its own bucket")
	}
	if l.Allow("a", 1, 1) {
		t.Fatalf("key a should be exhausted")
	}
}
