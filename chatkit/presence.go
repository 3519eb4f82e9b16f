package chatkit

import (
	"slices"
	"sync"
)

// Tracker holds the latest presence broadcast. Each update replaces the
// previous set wholesale; the most recent broadcast is authoritative and
// no history is kept.
type Tracker struct {
	mu     sync.RWMutex
	online []string
}

// NewTracker returns a tracker with an empty presence set.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Update replaces the tracked set with online. A nil list clears it.
func (t *Tracker) Update(online []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.online = slices.Clone(online)
}

// IsOnline reports whether username is in the latest received set.
func (t *Tracker) IsOnline(username string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Contains(t.online, username)
}

// Snapshot returns a copy of the current set in broadcast order.
func (t *Tracker) Snapshot() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.online)
}
