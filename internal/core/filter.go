package core

import (
	"strings"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// TypeFilter narrows the board to one report type.
type TypeFilter string

const (
	FilterAll   TypeFilter = "all"
	FilterLost  TypeFilter = "lost"
	FilterFound TypeFilter = "found"
)

// ParseTypeFilter maps a raw query value onto a TypeFilter. Anything
// unrecognized, including the empty string, means no type narrowing.
func ParseTypeFilter(raw string) TypeFilter {
	switch TypeFilter(strings.ToLower(raw)) {
	case FilterLost:
		return FilterLost
	case FilterFound:
		return FilterFound
	default:
		return FilterAll
	}
}

// FilterPosts derives the visible subset of the mirror for a search query
// and a type filter. It is pure: the input slice is never mutated, relative
// order is preserved, and identical inputs yield identical output.
//
// The query matches case-insensitively as a substring of title, description,
// location or category. It is deliberately not trimmed, so a whitespace-only
// query is a literal match like any other.
func FilterPosts(posts []models.Post, query string, typeFilter TypeFilter) []models.Post {
	loweredQuery := strings.ToLower(query)
	out := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if typeFilter != FilterAll && TypeFilter(post.Type) != typeFilter {
			continue
		}
		if loweredQuery != "" && !matchesQuery(post, loweredQuery) {
			continue
		}
		out = append(out, post)
	}
	return out
}

func matchesQuery(post models.Post, loweredQuery string) bool {
	for _, field := range []string{post.Title, post.Description, post.Location, post.Category} {
		if strings.Contains(strings.ToLower(field), loweredQuery) {
			return true
		}
	}
	return false
}
