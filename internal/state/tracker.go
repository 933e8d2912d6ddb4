// Package state holds the merged key/value view of printer-reported
// fields. Updates are per-key merges (last writer wins); readers get
// independent snapshot copies. The tracker is domain-agnostic: it never
// interprets field semantics.
package state

import "sync"

// Tracker accumulates partial state updates for the client's lifetime.
// All exported methods are safe for concurrent use.
type Tracker struct {
	mu   sync.RWMutex
	data map[string]any
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{data: make(map[string]any)}
}

// Apply merges update into the tracked state, overwriting per key.
// Existing keys absent from update are kept; nothing is ever removed.
func (t *Tracker) Apply(update map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range update {
		t.data[k] = v
	}
}

// Snapshot returns a copy the caller may retain and mutate freely.
func (t *Tracker) Snapshot() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]any, len(t.data))
	for k, v := range t.data {
		out[k] = v
	}
	return out
}

// Get returns one field and whether it is present.
func (t *Tracker) Get(key string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.data[key]
	return v, ok
}

// Len returns the number of tracked fields.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.data)
}
