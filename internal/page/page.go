// Package page provides the pagination request/response types shared by the
// list operations of every aggregate.
package page

const (
	// DefaultSize is used when the caller does not specify a page size.
	DefaultSize = 20
	// MaxSize caps the page size a caller may request.
	MaxSize = 100
)

// Request identifies one page of a listing. Number is 0-based.
type Request struct {
	Number int
	Size   int
}

// Normalized clamps the request to sane bounds: negative page numbers become
// 0, a non-positive size becomes DefaultSize, oversized requests are capped.
func (r Request) Normalized() Request {
	if r.Number < 0 {
		r.Number = 0
	}
	if r.Size <= 0 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
	return r
}

// Offset returns the row offset for the normalized request.
func (r Request) Offset() int {
	n := r.Normalized()
	return n.Number * n.Size
}

// Page is one page of results together with the total match count.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int64
}
