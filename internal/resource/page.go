package resource

const (
	// DefaultPageSize applies when the caller sends no limit.
	DefaultPageSize = 10
	// MaxPageSize is the clamp for caller-supplied limits.
	MaxPageSize = 100
)

// Page is a pagination request.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) Normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// PageResult is the listing envelope. Total is the unfiltered row count for
// the scope, not the page size, so clients can derive further pages.
type PageResult[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}
