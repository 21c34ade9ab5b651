// Package admin implements the catalog back office: course validation,
// create/update/delete and the session gate in front of them.
package admin

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"digitora/internal/catalog"
	"digitora/pkg/domain"
)

// CourseInput is the raw editor form. Tags arrive as one comma-separated
// string; numbers are already parsed by the transport layer.
type CourseInput struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Level       string  `json:"level"`
	Rating      float64 `json:"rating"`
	Students    int     `json:"students"`
	Image       string  `json:"image"`
	Tags        string  `json:"tags"`
	DownloadURL string  `json:"downloadUrl"`
	MaterialKey string  `json:"materialKey"`
}

// ValidationError carries the per-field messages for a rejected save.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// Editor applies admin edits to the catalog store.
type Editor struct {
	catalog *catalog.Store
}

// NewEditor builds an editor over the catalog.
func NewEditor(cat *catalog.Store) *Editor {
	return &Editor{catalog: cat}
}

// Save validates the input and writes it to the catalog. An existing id
// replaces the course in place; an empty id mints a fresh id and prepends
// the course. Validation failures block the save entirely.
func (e *Editor) Save(input CourseInput) (domain.Course, error) {
	course, verr := buildCourse(input)
	if verr != nil {
		return domain.Course{}, verr
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
		if err := e.catalog.Prepend(course); err != nil {
			return domain.Course{}, err
		}
		return course, nil
	}
	if err := e.catalog.Replace(course); err != nil {
		return domain.Course{}, err
	}
	return course, nil
}

// Delete removes a course by id.
func (e *Editor) Delete(id string) error {
	return e.catalog.Remove(id)
}

func buildCourse(input CourseInput) (domain.Course, *ValidationError) {
	fields := map[string]string{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		fields["title"] = "Title is required"
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		fields["description"] = "Description is required"
	}
	if input.Price < 0 {
		fields["price"] = "Price cannot be negative"
	}
	if input.Students < 0 {
		fields["students"] = "Students count cannot be negative"
	}

	category, ok := domain.ParseCategory(strings.TrimSpace(input.Category))
	if !ok {
		fields["category"] = "Unknown category"
	}
	level, ok := domain.ParseLevel(strings.TrimSpace(input.Level))
	if !ok {
		fields["level"] = "Unknown level"
	}

	image := strings.TrimSpace(input.Image)
	if image == "" {
		fields["image"] = "Image URL is required"
	} else if !isHTTPURL(image) {
		fields["image"] = "Invalid URL (must start with http:// or https://)"
	}
	downloadURL := strings.TrimSpace(input.DownloadURL)
	if downloadURL != "" && !isHTTPURL(downloadURL) {
		fields["downloadUrl"] = "Invalid URL (must start with http:// or https://)"
	}

	if len(fields) > 0 {
		return domain.Course{}, &ValidationError{Fields: fields}
	}
	return domain.Course{
		ID:          strings.TrimSpace(input.ID),
		Title:       title,
		Description: description,
		Price:       input.Price,
		Category:    category,
		Level:       level,
		Rating:      input.Rating,
		Students:    input.Students,
		Image:       image,
		Tags:        parseTags(input.Tags),
		DownloadURL: downloadURL,
		MaterialKey: strings.TrimSpace(input.MaterialKey),
	}, nil
}

func parseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func isHTTPURL(s string) bool {
	lower := strings.ToLower(s)
	for _, prefix := range []string{"http://", "https://"} {
		if strings.HasPrefix(lower, prefix) && len(s) > len(prefix) {
			return true
		}
	}
	return false
}
