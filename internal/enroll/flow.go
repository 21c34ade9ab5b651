// Package enroll implements the purchase and download lifecycle: checkout
// summary, payment confirmation, entitlement grant and material unlock.
package enroll

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"digitora/internal/catalog"
	"digitora/internal/entitlement"
	"digitora/internal/events"
	"digitora/internal/state"
	"digitora/internal/storage"
	"digitora/pkg/domain"
)

// ErrNotEntitled indicates a download attempt without a prior purchase.
var ErrNotEntitled = errors.New("course not purchased")

const presignExpiry = 15 * time.Minute

// Flow wires the catalog, entitlement tracker, payment verifier and
// persistence into the purchase lifecycle. Download extras are tracked as
// an explicit per-course counter, never derived by diffing against the
// seed counts.
type Flow struct {
	catalog      *catalog.Store
	entitlements *entitlement.Tracker
	store        state.Store
	verifier     PaymentVerifier
	publisher    events.Publisher
	materials    storage.MaterialStore
	paymentURL   string

	mu     sync.Mutex
	extras map[string]int
}

// NewFlow loads the persisted extras overlay; a failed load degrades to
// an empty overlay. materials may be nil when no object store is
// configured.
func NewFlow(cat *catalog.Store, tracker *entitlement.Tracker, store state.Store, verifier PaymentVerifier, publisher events.Publisher, materials storage.MaterialStore, paymentURL string) *Flow {
	extras, err := store.LoadOverlay()
	if err != nil {
		slog.Warn("overlay load failed, starting empty", "error", err)
		extras = map[string]int{}
	}
	if extras == nil {
		extras = map[string]int{}
	}
	return &Flow{
		catalog:      cat,
		entitlements: tracker,
		store:        store,
		verifier:     verifier,
		publisher:    publisher,
		materials:    materials,
		paymentURL:   paymentURL,
		extras:       extras,
	}
}

// Checkout returns the order summary for a course. The platform charges
// no fee, so the total equals the price.
func (f *Flow) Checkout(id string) (domain.Checkout, error) {
	course, ok := f.catalog.Get(id)
	if !ok {
		return domain.Checkout{}, catalog.ErrCourseNotFound
	}
	return domain.Checkout{
		CourseID:   course.ID,
		Title:      course.Title,
		Price:      course.Price,
		Fee:        0,
		Total:      course.Price,
		PaymentURL: f.paymentURL,
	}, nil
}

// Confirm verifies the payment proof and grants the entitlement. The
// purchase event is published best-effort after the grant.
func (f *Flow) Confirm(ctx context.Context, id string, proof Proof) error {
	course, ok := f.catalog.Get(id)
	if !ok {
		return catalog.ErrCourseNotFound
	}
	if err := f.verifier.Verify(ctx, id, proof); err != nil {
		return err
	}
	if err := f.entitlements.Grant(id); err != nil {
		return err
	}
	if err := f.publisher.PurchaseCompleted(ctx, id, course.Price); err != nil {
		slog.Warn("purchase event publish failed", "course_id", id, "error", err)
	}
	return nil
}

// DownloadResult is the outcome of a successful unlock.
type DownloadResult struct {
	URL       string
	Downloads int
}

// Download unlocks the course materials for an owned course. Every
// activation counts: the working download count goes up by exactly one
// and the extras overlay is persisted. A course with no material source
// still succeeds with an empty URL.
func (f *Flow) Download(ctx context.Context, id string) (DownloadResult, error) {
	if !f.entitlements.Has(id) {
		return DownloadResult{}, ErrNotEntitled
	}
	course, ok := f.catalog.Get(id)
	if !ok {
		return DownloadResult{}, catalog.ErrCourseNotFound
	}

	working, err := f.catalog.IncrementDownloads(id)
	if err != nil {
		return DownloadResult{}, err
	}
	f.mu.Lock()
	f.extras[id]++
	snapshot := make(map[string]int, len(f.extras))
	for k, v := range f.extras {
		snapshot[k] = v
	}
	f.mu.Unlock()
	if err := f.store.SaveOverlay(snapshot); err != nil {
		slog.Error("overlay persist failed", "course_id", id, "error", err)
	}

	return DownloadResult{URL: f.materialURL(ctx, course), Downloads: working}, nil
}

// EntitledIDs returns the owned course ids in grant order.
func (f *Flow) EntitledIDs() []string {
	return f.entitlements.IDs()
}

// Extras returns a snapshot of the explicit extras overlay.
func (f *Flow) Extras() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.extras))
	for k, v := range f.extras {
		out[k] = v
	}
	return out
}

func (f *Flow) materialURL(ctx context.Context, course domain.Course) string {
	if course.MaterialKey != "" && f.materials != nil {
		url, err := f.materials.PresignGet(ctx, course.MaterialKey, presignExpiry)
		if err == nil {
			return url
		}
		slog.Warn("presign failed, falling back to direct url", "course_id", course.ID, "error", err)
	}
	return course.DownloadURL
}
