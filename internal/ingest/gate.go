package ingest

import "sync"

// Gate latches the one-time import that fires when an account transitions
// from unverified to verified. Verification state can flicker (re-renders,
// repeated webhook deliveries); the gate guarantees the import callback runs
// at most once per gate.
type Gate struct {
	mu       sync.Mutex
	verified bool
	fired    bool
}

// Verify records a transition to the verified state and runs fn exactly once
// across all calls. Returns true if fn ran.
func (g *Gate) Verify(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.verified = true
	if g.fired {
		return false
	}
	g.fired = true
	fn()
	return true
}

// Verified reports whether a Verify transition has been observed.
func (g *Gate) Verified() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verified
}
