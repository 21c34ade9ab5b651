package catalog

import (
	"errors"
	"sync"

	"digitora/pkg/domain"
)

var (
	// ErrCourseNotFound indicates the requested course id is not in the catalog.
	ErrCourseNotFound = errors.New("course not found")
	// ErrDuplicateID indicates an insert with an id that already exists.
	ErrDuplicateID = errors.New("duplicate course id")
)

// Store is the ordered in-memory catalog. Courses hold the working
// download count: the seed baseline plus any locally accrued extras.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Course
	order   []string
	seedDLs map[string]int
}

// NewStore builds a catalog from the seed list and the persisted extras
// overlay. Overlay entries for unknown ids are ignored.
func NewStore(seed []domain.Course, overlay map[string]int) *Store {
	s := &Store{
		byID:    make(map[string]*domain.Course, len(seed)),
		order:   make([]string, 0, len(seed)),
		seedDLs: make(map[string]int, len(seed)),
	}
	for _, c := range seed {
		if _, exists := s.byID[c.ID]; exists {
			continue
		}
		course := cloneCourse(c)
		s.seedDLs[course.ID] = course.Downloads
		if extra, ok := overlay[course.ID]; ok && extra > 0 {
			course.Downloads += extra
		}
		s.byID[course.ID] = &course
		s.order = append(s.order, course.ID)
	}
	return s
}

// Courses returns a snapshot of the catalog in insertion order.
func (s *Store) Courses() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Course, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneCourse(*s.byID[id]))
	}
	return out
}

// Get returns the course with the given id.
func (s *Store) Get(id string) (domain.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return domain.Course{}, false
	}
	return cloneCourse(*c), true
}

// Prepend inserts a new course at the front of the catalog. The id must
// not already exist; on conflict the store is left untouched.
func (s *Store) Prepend(c domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[c.ID]; exists {
		return ErrDuplicateID
	}
	course := cloneCourse(c)
	s.byID[course.ID] = &course
	s.order = append([]string{course.ID}, s.order...)
	s.seedDLs[course.ID] = course.Downloads
	return nil
}

// Replace overwrites an existing course in place, keeping its position.
func (s *Store) Replace(c domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[c.ID]; !exists {
		return ErrCourseNotFound
	}
	course := cloneCourse(c)
	s.byID[course.ID] = &course
	s.seedDLs[course.ID] = course.Downloads
	return nil
}

// Remove deletes a course by id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[id]; !exists {
		return ErrCourseNotFound
	}
	delete(s.byID, id)
	delete(s.seedDLs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// IncrementDownloads bumps the working download count by one and returns
// the new value.
func (s *Store) IncrementDownloads(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return 0, ErrCourseNotFound
	}
	c.Downloads++
	return c.Downloads, nil
}

// SeedDownloads returns the baseline download count recorded when the
// course entered the store.
func (s *Store) SeedDownloads(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.seedDLs[id]
	return n, ok
}

func cloneCourse(c domain.Course) domain.Course {
	if len(c.Tags) > 0 {
		tags := make([]string, len(c.Tags))
		copy(tags, c.Tags)
		c.Tags = tags
	}
	return c
}
