package domain

// PaginationParams carries page/limit values from the HTTP layer to the stores.
// Page is 1-indexed. Limit is capped at 100 by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil pointers fall back to page=1, limit=20; the limit is capped at 100.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	return p
}

// Offset returns the zero-based index of the first item on the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginate returns the window of items selected by p and the total number of
// items. Pages past the end yield an empty, non-nil slice.
func Paginate[T any](items []T, p PaginationParams) ([]T, int) {
	total := len(items)
	if p.Page < 1 || p.Limit < 1 {
		return []T{}, total
	}
	// Compare against the page count before multiplying so that huge page
	// numbers cannot overflow Offset.
	pages := (total + p.Limit - 1) / p.Limit
	if p.Page > pages {
		return []T{}, total
	}
	start := p.Offset()
	end := start + p.Limit
	if end > total {
		end = total
	}
	return items[start:end], total
}
