package catalog

import (
	"strings"

	"digitora/pkg/domain"
)

// Filter narrows a catalog snapshot to the courses visible for the given
// view, category tab and search query. The premium view shows only the
// Special tier regardless of the selected category; the standard view
// shows the selected category and never Special. The query is a
// case-insensitive substring match over title, description and tags, and
// an empty query matches everything. Input order is preserved.
func Filter(courses []domain.Course, view domain.ViewMode, category domain.Category, query string) []domain.Course {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if !matchesView(c, view, category) {
			continue
		}
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesView(c domain.Course, view domain.ViewMode, category domain.Category) bool {
	switch view {
	case domain.ViewPremium:
		return c.Category == domain.CategorySpecial
	case domain.ViewStandard:
		return c.Category == category
	default:
		return false
	}
}

func matchesQuery(c domain.Course, query string) bool {
	if strings.Contains(strings.ToLower(c.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Description), query) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
