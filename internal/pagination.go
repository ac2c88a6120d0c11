package internal

// DefaultPageSize is the number of tasks served per section page.
const DefaultPageSize = 5

// Page is one slice of an ordered task collection, tracked 1-based.
type Page struct {
	Items       []Task `json:"items"`
	Number      int    `json:"number"`
	TotalPages  int    `json:"total_pages"`
	TotalItems  int    `json:"total_items"`
	HasPrevious bool   `json:"has_previous"`
	HasNext     bool   `json:"has_next"`
}

// Paginate slices an ordered collection into the requested page. Out-of-range
// requests clamp to the nearest valid page instead of failing: anything below
// the range serves page 1, anything above serves the last page. An empty
// collection yields exactly one empty page.
func Paginate(items []Task, number, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}

	totalItems := len(items)

	totalPages := (totalItems + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	if number < 1 {
		number = 1
	}

	if number > totalPages {
		number = totalPages
	}

	lo := (number - 1) * size

	hi := lo + size
	if hi > totalItems {
		hi = totalItems
	}

	return Page{
		Items:       items[lo:hi],
		Number:      number,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasPrevious: number > 1,
		HasNext:     number < totalPages,
	}
}
