package trivia

import (
	"strconv"
	"strings"
)

// PageSize is the fixed number of questions per page.
const PageSize = 10

// ParsePage coerces a raw page parameter to a 1-based page number.
// Missing, non-integer and non-positive values yield 1.
func ParsePage(raw string) int {
	p, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// Paginate returns the page-th slice of items. Pages past the end are empty.
func Paginate[T any](items []T, page int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
