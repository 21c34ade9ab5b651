package catalog

import (
	"errors"
	"reflect"
	"testing"

	"digitora/pkg/domain"
)

func testCourses() []domain.Course {
	return []domain.Course{
		{ID: "c1", Title: "Crypto Basics", Category: domain.CategoryCrypto, Downloads: 10},
		{ID: "c2", Title: "DeFi Deep Dive", Category: domain.CategoryDeFi, Downloads: 120},
		{ID: "c3", Title: "MEV Secrets", Category: domain.CategorySpecial, Downloads: 5},
	}
}

func TestStoreOverlayMerge(t *testing.T) {
	store := NewStore(testCourses(), map[string]int{"c2": 3, "ghost": 9})
	c2, ok := store.Get("c2")
	if !ok {
		t.Fatalf("expected c2 in store")
	}
	if c2.Downloads != 123 {
		t.Fatalf("expected working downloads 123, got %d", c2.Downloads)
	}
	if seed, _ := store.SeedDownloads("c2"); seed != 120 {
		t.Fatalf("expected seed downloads 120, got %d", seed)
	}
	c1, _ := store.Get("c1")
	if c1.Downloads != 10 {
		t.Fatalf("overlay must not touch unlisted courses, got %d", c1.Downloads)
	}
}

func TestStoreIncrementDownloads(t *testing.T) {
	store := NewStore(testCourses(), nil)
	for i := 0; i < 2; i++ {
		if _, err := store.IncrementDownloads("c1"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	c1, _ := store.Get("c1")
	if c1.Downloads != 12 {
		t.Fatalf("expected working downloads 12, got %d", c1.Downloads)
	}
	if _, err := store.IncrementDownloads("missing"); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestStorePrependDuplicateID(t *testing.T) {
	store := NewStore(testCourses(), nil)
	before := store.Courses()
	err := store.Prepend(domain.Course{ID: "c1", Title: "Impostor"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if !reflect.DeepEqual(before, store.Courses()) {
		t.Fatalf("store must be untouched after duplicate prepend")
	}
}

func TestStorePrependAndOrder(t *testing.T) {
	store := NewStore(testCourses(), nil)
	if err := store.Prepend(domain.Course{ID: "c0", Title: "New Arrival", Category: domain.CategoryCrypto}); err != nil {
		t.Fatalf("prepend: %v", err)
	}
	courses := store.Courses()
	if courses[0].ID != "c0" {
		t.Fatalf("expected new course first, got %s", courses[0].ID)
	}
	if len(courses) != 4 {
		t.Fatalf("expected 4 courses, got %d", len(courses))
	}
}

func TestStoreReplaceKeepsPosition(t *testing.T) {
	store := NewStore(testCourses(), nil)
	if err := store.Replace(domain.Course{ID: "c2", Title: "DeFi Rewritten", Category: domain.CategoryDeFi}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	courses := store.Courses()
	if courses[1].ID != "c2" || courses[1].Title != "DeFi Rewritten" {
		t.Fatalf("expected replaced course in place, got %+v", courses[1])
	}
	if err := store.Replace(domain.Course{ID: "missing"}); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestStoreRemove(t *testing.T) {
	store := NewStore(testCourses(), nil)
	if err := store.Remove("c2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := store.Get("c2"); ok {
		t.Fatalf("expected c2 gone")
	}
	if got := len(store.Courses()); got != 2 {
		t.Fatalf("expected 2 courses, got %d", got)
	}
	if err := store.Remove("c2"); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	store := NewStore(testCourses(), nil)
	snap := store.Courses()
	snap[0].Title = "mutated"
	fresh, _ := store.Get(snap[0].ID)
	if fresh.Title == "mutated" {
		t.Fatalf("snapshot mutation must not leak into the store")
	}
}
