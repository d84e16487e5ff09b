package identity

import (
	"testing"
	"time"
)

func TestReplayGuard_UseOnce(t *testing.T) {
	g := NewReplayGuard()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if !g.Use("jti-1", now.Add(time.Minute), now) {
		t.Fatal("first use must be accepted")
	}
	if g.Use("jti-1", now.Add(time.Minute), now) {
		t.Fatal("second use must be rejected")
	}
	if !g.Use("jti-2", now.Add(time.Minute), now) {
		t.Fatal("different id must be accepted")
	}
	if g.Len() != 2 {
		t.Fatalf("Len = %d, want 2", g.Len())
	}
}

func TestReplayGuard_ExpiredEntriesAreSwept(t *testing.T) {
	g := NewReplayGuard()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	g.Use("jti-1", now.Add(time.Minute), now)
	g.Use("jti-2", now.Add(5*time.Minute), now)

	later := now.Add(2 * time.Minute)
	if !g.Use("jti-3", later.Add(time.Minute), later) {
		t.Fatal("fresh id must be accepted")
	}
	if g.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (jti-1 swept)", g.Len())
	}
}
