// Package state persists the two pieces of mutable storefront state that
// must survive restarts: the per-course download extras overlay and the
// entitlement id set. The static catalog seed is never persisted.
package state

// Store loads and saves the overlay and entitlement set. Loads are
// best-effort: missing or malformed data comes back as empty, and callers
// treat load errors as an empty start rather than a fatal condition.
type Store interface {
	LoadOverlay() (map[string]int, error)
	SaveOverlay(overlay map[string]int) error
	LoadEntitlements() ([]string, error)
	SaveEntitlements(ids []string) error
}
