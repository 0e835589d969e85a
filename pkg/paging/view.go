package paging

// TotalPages is never below 1, an empty result still has one (empty) page.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	return max(1, min(page, totalPages))
}

// Slice returns the requested page of items together with the page number
// that was actually used. Out of range pages are corrected, not rejected.
func Slice[T any](items []T, pageSize, page int) ([]T, int) {
	if pageSize < 1 {
		pageSize = 1
	}
	page = ClampPage(page, TotalPages(len(items), pageSize))
	start := (page - 1) * pageSize
	if start >= len(items) {
		return items[:0:0], page
	}
	end := min(start+pageSize, len(items))
	return items[start:end], page
}
