package shared

import (
	"net/http"
	"strconv"
	"time"
)

// FiltersFromQuery parses the standard list filters from a request.
func FiltersFromQuery(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	filters := ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  q.Get("search"),
		SortBy:  q.Get("sort"),
		SortDir: q.Get("dir"),
	}
	if raw := q.Get("route_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.RouteID = &id
		}
	}
	if raw := q.Get("bus_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.BusID = &id
		}
	}
	if raw := q.Get("date"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			filters.Date = &d
		}
	}
	return filters
}
