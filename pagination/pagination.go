// Package pagination derives page slices and page controls from a list length.
// Pages are 1-indexed.
package pagination

// PageSize is the number of posts shown per page.
const PageSize = 3

// Page is the derived pagination state for one render.
type Page struct {
	Current     int   `json:"current"`
	Total       int   `json:"total"`
	Size        int   `json:"size"`
	Numbers     []int `json:"numbers"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
	Start       int   `json:"-"`
	End         int   `json:"-"`
}

// New builds the page view for a list of n items. page is clamped first.
func New(n, page, size int) Page {
	total := TotalPages(n, size)
	current := Clamp(page, total)
	start, end := Bounds(n, current, size)
	return Page{
		Current:     current,
		Total:       total,
		Size:        size,
		Numbers:     Numbers(total),
		HasPrevious: current > 1,
		HasNext:     current < total,
		Start:       start,
		End:         end,
	}
}

// TotalPages is ceil(n/size). An empty list has zero pages.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Bounds returns the half-open index range of page within a list of n items.
// Ranges past the end are clamped; an out-of-range page yields start == end.
func Bounds(n, page, size int) (start, end int) {
	if page < 1 || size <= 0 || n <= 0 {
		return 0, 0
	}
	start = (page - 1) * size
	if start > n {
		return n, n
	}
	end = start + size
	if end > n {
		end = n
	}
	return start, end
}

// Slice returns the items visible on page. It never panics.
func Slice[T any](items []T, page, size int) []T {
	start, end := Bounds(len(items), page, size)
	return items[start:end]
}

// Previous is max(page-1, 1).
func Previous(page int) int {
	if page-1 < 1 {
		return 1
	}
	return page - 1
}

// Next is min(page+1, total), floored at 1 so an empty list stays on page 1.
func Next(page, total int) int {
	next := page + 1
	if next > total {
		next = total
	}
	if next < 1 {
		return 1
	}
	return next
}

// Clamp forces page into [1, max(total,1)].
func Clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	switch {
	case page < 1:
		return 1
	case page > total:
		return total
	}
	return page
}

// Numbers lists the page-number controls 1..total.
func Numbers(total int) []int {
	nums := make([]int, 0, max(total, 0))
	for i := 1; i <= total; i++ {
		nums = append(nums, i)
	}
	return nums
}
