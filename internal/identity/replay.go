package identity

import (
	"sync"
	"time"
)

// ReplayGuard remembers proof IDs until the proof would have expired
// anyway. A proof ID seen twice within its lifetime is a replay.
//
// The guard is in-memory: a restarted server forgets what it has seen, but
// proofs are short-lived so the exposure is bounded by the proof lifetime.
type ReplayGuard struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewReplayGuard() *ReplayGuard {
	return &ReplayGuard{entries: make(map[string]time.Time)}
}

// Use records id as consumed until expiresAt. It returns false if id was
// already recorded and has not expired yet. Expired entries are swept on
// every call.
func (g *ReplayGuard) Use(id string, expiresAt, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for key, exp := range g.entries {
		if !now.Before(exp) {
			delete(g.entries, key)
		}
	}

	if _, seen := g.entries[id]; seen {
		return false
	}
	g.entries[id] = expiresAt
	return true
}

// Len returns the number of remembered proof IDs.
func (g *ReplayGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
