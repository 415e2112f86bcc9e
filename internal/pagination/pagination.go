// Package pagination provides page-based windowing over ordered sequences.
package pagination

// Page is one window of an ordered result set. Page numbers are 1-based.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	Total       int  `json:"total"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Clamp normalizes a requested page number. Zero and negative pages
// are clamped to the first page.
func Clamp(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Window converts a 1-based page number into a LIMIT/OFFSET pair
func Window(page, size int) (limit, offset int) {
	page = Clamp(page)
	return size, (page - 1) * size
}

// New builds a page from an already-windowed item slice and the total
// count of the underlying sequence. A page past the end carries an
// empty item list and HasNext=false, it is not an error.
func New[T any](items []T, page, size, total int) Page[T] {
	page = Clamp(page)
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Page:        page,
		Total:       total,
		HasNext:     page*size < total,
		HasPrevious: page > 1,
	}
}
