// Package pagination carries page requests from query strings or JSON bodies
// to list queries and wraps their results with page metadata.
package pagination

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/recipe-lab/pkg/query"
)

// Request selects one page of a list. A zero Request means the first page at
// the configured default size.
type Request struct {
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Search   *string           `json:"search,omitempty"`
	Sort     []query.SortField `json:"sort,omitempty"`
}

// Parse reads page, page_size, search and sort from values. Unparsable numbers
// fall back to defaults. The result is normalized against cfg.
func Parse(values url.Values, cfg Config) Request {
	req := Request{
		Sort: query.ParseSortFields(values.Get("sort")),
	}
	req.Page, _ = strconv.Atoi(values.Get("page"))
	req.PageSize, _ = strconv.Atoi(values.Get("page_size"))
	if s := values.Get("search"); s != "" {
		req.Search = &s
	}
	return req.Normalize(cfg)
}

// Normalize returns r with the page raised to at least 1 and the page size
// defaulted and clamped to cfg.MaxPageSize.
func (r Request) Normalize(cfg Config) Request {
	r.Page = max(r.Page, 1)
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	r.PageSize = min(r.PageSize, cfg.MaxPageSize)
	return r
}

// Limit is the number of rows in a page.
func (r Request) Limit() int {
	return r.PageSize
}

// Offset is the number of rows skipped before the page.
func (r Request) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Page is one page of results. TotalPages is at least 1 so an empty list
// still reports page 1 of 1.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPage wraps data fetched for req out of total matching rows.
func NewPage[T any](data []T, total int, req Request) Page[T] {
	if data == nil {
		data = []T{}
	}

	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: max((total+req.PageSize-1)/req.PageSize, 1),
	}
}
