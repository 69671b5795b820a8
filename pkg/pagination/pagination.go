package pagination

import (
	"net/http"
	"strconv"
)

// Params holds pagination parameters extracted from query strings.
// The storefront backend uses zero-based page indices.
type Params struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{Page: 0, Size: 20}
}

// FromRequest extracts pagination parameters from an HTTP request.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v >= 0 {
			p.Page = v
		}
	}

	if size := r.URL.Query().Get("size"); size != "" {
		if v, err := strconv.Atoi(size); err == nil && v > 0 && v <= 100 {
			p.Size = v
		}
	}

	return p
}

// Offset returns the element offset of the page.
func (p Params) Offset() int {
	return p.Page * p.Size
}

// Result wraps a paginated response.
type Result[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Page          int  `json:"page"`
	Size          int  `json:"size"`
	Last          bool `json:"last"`
}

// NewResult creates a paginated result from the full element count.
func NewResult[T any](content []T, total int, params Params) Result[T] {
	totalPages := total / params.Size
	if total%params.Size > 0 {
		totalPages++
	}
	if content == nil {
		content = []T{}
	}
	return Result[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Page:          params.Page,
		Size:          params.Size,
		Last:          params.Page >= totalPages-1,
	}
}

// Slice returns the sub-slice of items belonging to the page.
func Slice[T any](items []T, params Params) []T {
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
