// Package shared holds helpers common to the depot record modules.
package shared

import "time"

// ListFilters represents standard list filters for depot records.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string

	// Entity specific filters
	RouteID *int64
	BusID   *int64
	Date    *time.Time
}

// Offset computes the row offset for the current page.
func (f ListFilters) Offset() int {
	if f.Limit <= 0 || f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
