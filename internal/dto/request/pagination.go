package request

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	MaxPage        = 100000
)

// PaginatedRequest is the page/per_page pair of every list endpoint.
// Page counts from 1 and is capped at MaxPage so offsets stay small.
type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1,max=100000"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// DefaultPage is the first page at the default size.
func DefaultPage() *PaginatedRequest {
	return &PaginatedRequest{Page: 1, PerPage: DefaultPerPage}
}

func (p PaginatedRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (min(p.Page, MaxPage) - 1) * p.Limit()
}

// Limit clamps PerPage into [1, MaxPerPage], using DefaultPerPage when unset.
func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return DefaultPerPage
	case p.PerPage > MaxPerPage:
		return MaxPerPage
	}
	return p.PerPage
}
