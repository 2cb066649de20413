package dto

import "math"

const (
	DefaultPageSize = 16
	MaxPageSize     = 100
	// MaxPage keeps Offset inside a 32-bit int for every allowed page size.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Filter carries the optional listing parameters shared by the catalog,
// admin and favorites endpoints.
type Filter struct {
	Search     string `query:"search"`
	Order      string `query:"order"`
	Field      string `query:"field"`
	CategoryID int64  `query:"category_id"`
	Page       int    `query:"page"`
	PageSize   int    `query:"page_size"`
}

// Normalize clamps pagination to sane bounds.
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.Page > MaxPage {
		f.Page = MaxPage
	}

	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}

	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
