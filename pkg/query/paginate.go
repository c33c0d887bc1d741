package query

import (
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	ErrInvalidPage  = goerr.New("page must be 1 or greater")
	ErrInvalidLimit = goerr.New("limit must be between 1 and 100")
)

// Page holds the slice bounds and navigation metadata of one page
type Page struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	StartIndex int  `json:"-"`
	EndIndex   int  `json:"-"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ValidatePage is the boundary check front ends run before Paginate
func ValidatePage(page, limit int) error {
	if page < 1 {
		return goerr.Wrap(ErrInvalidPage, "invalid pagination", goerr.V("page", page))
	}
	if limit < 1 || limit > MaxLimit {
		return goerr.Wrap(ErrInvalidLimit, "invalid pagination", goerr.V("limit", limit))
	}
	return nil
}

// Paginate computes page bounds. Inputs are expected to be validated already:
// totalItems >= 0, page >= 1, limit >= 1. Nothing is clamped here.
func Paginate(totalItems, page, limit int) Page {
	start := (page - 1) * limit
	totalPages := (totalItems + limit - 1) / limit

	return Page{
		Page:       page,
		Limit:      limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
		StartIndex: start,
		EndIndex:   start + limit,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Slice returns the items of the page. Bounds beyond len(items) give a short or
// empty page.
func Slice[T any](items []T, p Page) []T {
	start := min(max(p.StartIndex, 0), len(items))
	end := min(max(p.EndIndex, start), len(items))
	return items[start:end]
}
