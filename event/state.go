package event

import "sync"

// StateCache tracks the last-seen call state per line slot so that a state
// reported twice in a row is processed once. Platforms deliver the same
// phone-state broadcast to multiple receivers, so duplicates are expected.
//
// The cache lives for the process run and holds one entry per slot, which
// bounds it by the number of lines on the device.
type StateCache struct {
	mu   sync.Mutex
	last map[int]CallState
}

// NewStateCache constructs an empty cache.
func NewStateCache() *StateCache {
	return &StateCache{last: make(map[int]CallState)}
}

// Suppress records state for the slot and reports whether it equals the
// previously recorded state, in which case the caller should skip the event.
func (c *StateCache) Suppress(slot int, state CallState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.last[slot]; ok && prev == state {
		return true
	}
	c.last[slot] = state

	return false
}
