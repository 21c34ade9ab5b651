package entitlement

import (
	"errors"
	"reflect"
	"testing"

	"digitora/internal/state"
)

type fakeStore struct {
	entitlements []string
	loadErr      error
	saveErr      error
	saves        int
}

var _ state.Store = (*fakeStore)(nil)

func (f *fakeStore) LoadOverlay() (map[string]int, error) { return map[string]int{}, nil }
func (f *fakeStore) SaveOverlay(map[string]int) error     { return nil }

func (f *fakeStore) LoadEntitlements() ([]string, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.entitlements, nil
}

func (f *fakeStore) SaveEntitlements(ids []string) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entitlements = ids
	return nil
}

func TestTrackerGrantIdempotent(t *testing.T) {
	store := &fakeStore{}
	tracker := NewTracker(store)
	if tracker.Has("c1") {
		t.Fatalf("fresh tracker should own nothing")
	}
	if err := tracker.Grant("c1"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := tracker.Grant("c1"); err != nil {
		t.Fatalf("second grant: %v", err)
	}
	if !tracker.Has("c1") {
		t.Fatalf("expected c1 owned")
	}
	if got := tracker.IDs(); !reflect.DeepEqual(got, []string{"c1"}) {
		t.Fatalf("expected single entry, got %v", got)
	}
	if store.saves != 1 {
		t.Fatalf("idempotent grant must persist once, got %d saves", store.saves)
	}
}

func TestTrackerRoundTrip(t *testing.T) {
	store := &fakeStore{}
	first := NewTracker(store)
	if err := first.Grant("c1"); err != nil {
		t.Fatalf("grant c1: %v", err)
	}
	if err := first.Grant("c2"); err != nil {
		t.Fatalf("grant c2: %v", err)
	}

	second := NewTracker(store)
	if got := second.IDs(); !reflect.DeepEqual(got, []string{"c1", "c2"}) {
		t.Fatalf("expected persisted set to survive reload, got %v", got)
	}
}

func TestTrackerLoadFailureDegradesToEmpty(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("backend down")}
	tracker := NewTracker(store)
	if got := tracker.IDs(); len(got) != 0 {
		t.Fatalf("expected empty set on load failure, got %v", got)
	}
	if err := tracker.Grant("c1"); err != nil {
		t.Fatalf("grant after degraded load: %v", err)
	}
	if !tracker.Has("c1") {
		t.Fatalf("grants must still work after degraded load")
	}
}

func TestTrackerDedupesPersistedIDs(t *testing.T) {
	store := &fakeStore{entitlements: []string{"c1", "c1", "c2"}}
	tracker := NewTracker(store)
	if got := tracker.IDs(); !reflect.DeepEqual(got, []string{"c1", "c2"}) {
		t.Fatalf("expected deduped load, got %v", got)
	}
}
