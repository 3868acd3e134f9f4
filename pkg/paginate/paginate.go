// Package paginate splits a result list into fixed size pages.
package paginate

// DefaultPageSize is the number of entries per page.
const DefaultPageSize = 30

// Page is one slice of a result list plus navigation info.
type Page[T any] struct {
	Items  []T  `json:"items"`
	Number int  `json:"page"`
	Count  int  `json:"pages"`
	Total  int  `json:"total"`
	Size   int  `json:"page_size"`
	Prev   bool `json:"has_prev"`
	Next   bool `json:"has_next"`
}

// ShowControls reports whether navigation is worth rendering.
func (p Page[T]) ShowControls() bool {
	return p.Count > 1
}

// PageCount returns ceil(total / size); 0 for an empty list.
func PageCount(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return (total + size - 1) / size
}

// Clamp limits number to [0, count-1] (0 when there are no pages).
func Clamp(number, count int) int {
	if number >= count {
		number = count - 1
	}
	return max(number, 0)
}

// Paginate returns page number of items. It does not clamp: an out of range
// number yields an empty page, so callers should Clamp first.
func Paginate[T any](items []T, size, number int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	p := Page[T]{
		Items:  []T{},
		Number: number,
		Count:  PageCount(len(items), size),
		Total:  len(items),
		Size:   size,
	}
	p.Prev = number > 0
	p.Next = number+1 < p.Count
	if number < 0 || number >= p.Count {
		return p
	}
	start := number * size
	end := min(start+size, len(items))
	p.Items = items[start:end]
	return p
}
