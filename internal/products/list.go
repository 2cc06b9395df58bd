package product

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListProductsInput captures the browse endpoint's paging and search knobs.
type ListProductsInput struct {
	Query  string
	Limit  int
	Offset int
}

// Normalize clamps paging to sane bounds.
func (in *ListProductsInput) Normalize() {
	if in.Limit <= 0 {
		in.Limit = defaultPageSize
	}
	if in.Limit > maxPageSize {
		in.Limit = maxPageSize
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
}
