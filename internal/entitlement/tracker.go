// Package entitlement tracks which courses the storefront user owns.
// The set only grows: there is no revocation path.
package entitlement

import (
	"log/slog"
	"sync"

	"digitora/internal/state"
)

// Tracker is the in-memory entitlement set backed by a state.Store. It is
// loaded once at construction; a failed load degrades to an empty set.
type Tracker struct {
	mu    sync.RWMutex
	store state.Store
	ids   map[string]struct{}
	order []string
}

// NewTracker loads the persisted entitlement set.
func NewTracker(store state.Store) *Tracker {
	t := &Tracker{
		store: store,
		ids:   make(map[string]struct{}),
	}
	ids, err := store.LoadEntitlements()
	if err != nil {
		slog.Warn("entitlement load failed, starting empty", "error", err)
		return t
	}
	for _, id := range ids {
		if _, seen := t.ids[id]; seen {
			continue
		}
		t.ids[id] = struct{}{}
		t.order = append(t.order, id)
	}
	return t
}

// Has reports whether the course is owned.
func (t *Tracker) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[id]
	return ok
}

// Grant adds a course to the set and persists it. Granting an already
// owned course is a no-op.
func (t *Tracker) Grant(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.ids[id]; ok {
		return nil
	}
	t.ids[id] = struct{}{}
	t.order = append(t.order, id)
	snapshot := make([]string, len(t.order))
	copy(snapshot, t.order)
	if err := t.store.SaveEntitlements(snapshot); err != nil {
		slog.Error("entitlement persist failed", "course_id", id, "error", err)
		return err
	}
	return nil
}

// IDs returns the owned course ids in grant order.
func (t *Tracker) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
