package model

// Pagination describes one page of a server-side list.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// TotalPages returns ceil(total/limit); zero when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewPagination builds a descriptor with a consistent TotalPages.
func NewPagination(page, limit, total int) Pagination {
	if page < 1 {
		page = 1
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: TotalPages(total, limit)}
}

// HasNext is false exactly when Page == TotalPages (or there are no pages).
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev is false exactly when Page == 1.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// Page is a list response: rows plus the descriptor.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// ListFilters — параметры выборки списка.
type ListFilters struct {
	Page   int
	Limit  int
	Search string
	// Extra содержит фильтры конкретного ресурса (role, category, action ...).
	Extra map[string]string
}

// Query renders the filters as URL query parameters. Zero values are omitted.
func (f ListFilters) Query() map[string]string {
	q := make(map[string]string, len(f.Extra)+3)
	for k, v := range f.Extra {
		if v != "" {
			q[k] = v
		}
	}
	if f.Page > 0 {
		q["page"] = itoa(f.Page)
	}
	if f.Limit > 0 {
		q["limit"] = itoa(f.Limit)
	}
	if f.Search != "" {
		q["search"] = f.Search
	}
	return q
}
