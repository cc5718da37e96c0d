package coordinator

import "sync"

// unhealthyThreshold is how many consecutive apply failures mark a zone
// unhealthy in the emitted snapshot.
const unhealthyThreshold = 3

// healthTracker counts consecutive per-zone failures. An unhealthy zone
// is reported as such but never removed from rotation: the next tick
// retries it, and a single success resets the count.
type healthTracker struct {
	mu       sync.Mutex
	failures map[string]int
}

func newHealthTracker() *healthTracker {
	return &healthTracker{failures: make(map[string]int)}
}

func (h *healthTracker) recordFailure(zoneID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[zoneID]++
}

func (h *healthTracker) recordSuccess(zoneID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.failures, zoneID)
}

func (h *healthTracker) healthy(zoneID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failures[zoneID] < unhealthyThreshold
}
