package core

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pages is the pagination metadata attached to every paginated response.
type Pages struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// CleanPagination clamps page and limit to their allowed ranges,
// substituting the defaults for missing values.
func CleanPagination(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// NewPages derives pagination metadata from a total row count.
func NewPages(total, page, limit int) Pages {
	totalPages := total / limit
	if total%limit > 0 {
		totalPages++
	}
	return Pages{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Offset returns the OFFSET matching a (page, limit) pair.
func Offset(page, limit int) int {
	return (page - 1) * limit
}
