package enroll

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"digitora/internal/catalog"
	"digitora/internal/entitlement"
	"digitora/internal/events"
	"digitora/internal/state"
	"digitora/pkg/domain"
)

type memState struct {
	overlay      map[string]int
	entitlements []string
}

var _ state.Store = (*memState)(nil)

func (m *memState) LoadOverlay() (map[string]int, error) {
	if m.overlay == nil {
		return map[string]int{}, nil
	}
	return m.overlay, nil
}

func (m *memState) SaveOverlay(overlay map[string]int) error {
	m.overlay = overlay
	return nil
}

func (m *memState) LoadEntitlements() ([]string, error) { return m.entitlements, nil }

func (m *memState) SaveEntitlements(ids []string) error {
	m.entitlements = ids
	return nil
}

type recordingPublisher struct {
	events.NoopPublisher
	published []string
}

func (p *recordingPublisher) PurchaseCompleted(ctx context.Context, courseID string, amount float64) error {
	p.published = append(p.published, courseID)
	return nil
}

func newTestFlow(t *testing.T, st *memState) (*Flow, *catalog.Store, *recordingPublisher) {
	t.Helper()
	cat := catalog.NewStore([]domain.Course{
		{ID: "c1", Title: "Crypto Basics", Category: domain.CategoryCrypto, Price: 49.99, Downloads: 10, DownloadURL: "https://cdn.example/c1.zip"},
		{ID: "c2", Title: "Silent Course", Category: domain.CategoryForex, Price: 10, Downloads: 0},
	}, st.overlay)
	tracker := entitlement.NewTracker(st)
	pub := &recordingPublisher{}
	return NewFlow(cat, tracker, st, ManualVerifier{}, pub, nil, "https://pay.example/invoice"), cat, pub
}

func TestPurchaseAndDownloadScenario(t *testing.T) {
	st := &memState{}
	flow, cat, pub := newTestFlow(t, st)

	checkout, err := flow.Checkout("c1")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if checkout.Fee != 0 || checkout.Total != 49.99 {
		t.Fatalf("expected fee 0 total 49.99, got fee %v total %v", checkout.Fee, checkout.Total)
	}
	if checkout.PaymentURL != "https://pay.example/invoice" {
		t.Fatalf("unexpected payment url %q", checkout.PaymentURL)
	}

	if err := flow.Confirm(context.Background(), "c1", Proof{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !reflect.DeepEqual(st.entitlements, []string{"c1"}) {
		t.Fatalf("expected persisted entitlements [c1], got %v", st.entitlements)
	}
	if !reflect.DeepEqual(pub.published, []string{"c1"}) {
		t.Fatalf("expected one purchase event, got %v", pub.published)
	}

	for i := 0; i < 2; i++ {
		res, err := flow.Download(context.Background(), "c1")
		if err != nil {
			t.Fatalf("download %d: %v", i+1, err)
		}
		if res.URL != "https://cdn.example/c1.zip" {
			t.Fatalf("unexpected material url %q", res.URL)
		}
	}

	c1, _ := cat.Get("c1")
	if c1.Downloads != 12 {
		t.Fatalf("expected working downloads 12, got %d", c1.Downloads)
	}
	if want := map[string]int{"c1": 2}; !reflect.DeepEqual(st.overlay, want) {
		t.Fatalf("expected persisted overlay %v, got %v", want, st.overlay)
	}
}

func TestOverlayStoresExtrasNotTotals(t *testing.T) {
	st := &memState{}
	cat := catalog.NewStore([]domain.Course{
		{ID: "big", Title: "Popular", Category: domain.CategoryCrypto, Downloads: 120},
	}, nil)
	tracker := entitlement.NewTracker(st)
	flow := NewFlow(cat, tracker, st, ManualVerifier{}, events.NoopPublisher{}, nil, "")
	if err := tracker.Grant("big"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := flow.Download(context.Background(), "big"); err != nil {
			t.Fatalf("download: %v", err)
		}
	}
	if st.overlay["big"] != 3 {
		t.Fatalf("overlay must store extras (3), not totals, got %d", st.overlay["big"])
	}
	course, _ := cat.Get("big")
	if course.Downloads != 123 {
		t.Fatalf("expected working count 123, got %d", course.Downloads)
	}
}

func TestDownloadRequiresEntitlement(t *testing.T) {
	st := &memState{}
	flow, cat, _ := newTestFlow(t, st)
	if _, err := flow.Download(context.Background(), "c1"); !errors.Is(err, ErrNotEntitled) {
		t.Fatalf("expected ErrNotEntitled, got %v", err)
	}
	c1, _ := cat.Get("c1")
	if c1.Downloads != 10 {
		t.Fatalf("failed download must not mutate counts, got %d", c1.Downloads)
	}
}

func TestConfirmUnknownCourseIsNoOp(t *testing.T) {
	st := &memState{}
	flow, _, pub := newTestFlow(t, st)
	if err := flow.Confirm(context.Background(), "ghost", Proof{}); !errors.Is(err, catalog.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if len(st.entitlements) != 0 || len(pub.published) != 0 {
		t.Fatalf("unknown course must not grant or publish")
	}
}

func TestDownloadDeletedCourse(t *testing.T) {
	st := &memState{}
	flow, cat, _ := newTestFlow(t, st)
	if err := flow.Confirm(context.Background(), "c1", Proof{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := cat.Remove("c1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := flow.Download(context.Background(), "c1"); !errors.Is(err, catalog.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if len(flow.Extras()) != 0 {
		t.Fatalf("deleted course download must not mutate the overlay")
	}
}

func TestDownloadWithoutMaterialSourceDegrades(t *testing.T) {
	st := &memState{}
	flow, _, _ := newTestFlow(t, st)
	if err := flow.Confirm(context.Background(), "c2", Proof{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	res, err := flow.Download(context.Background(), "c2")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if res.URL != "" {
		t.Fatalf("expected empty url for course without materials, got %q", res.URL)
	}
	if res.Downloads != 1 {
		t.Fatalf("count must still advance, got %d", res.Downloads)
	}
}

func TestFlowResumesPersistedOverlay(t *testing.T) {
	st := &memState{overlay: map[string]int{"c1": 2}, entitlements: []string{"c1"}}
	flow, cat, _ := newTestFlow(t, st)
	c1, _ := cat.Get("c1")
	if c1.Downloads != 12 {
		t.Fatalf("expected resumed working count 12, got %d", c1.Downloads)
	}
	if _, err := flow.Download(context.Background(), "c1"); err != nil {
		t.Fatalf("download: %v", err)
	}
	if st.overlay["c1"] != 3 {
		t.Fatalf("expected overlay to continue at 3, got %d", st.overlay["c1"])
	}
}
