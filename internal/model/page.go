package model

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// Default list window applied when the caller leaves PageOptions zero.
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultSortField = "created_dt"
)

// PageOptions is the shared request shape for list endpoints. Pagination is
// offset based; the first page is 1.
type PageOptions struct {
	Page      int64     `json:"page"`
	Limit     int64     `json:"limit"`
	SortField string    `json:"sort_field"`
	SortOrder SortOrder `json:"sort_order"`
}

// Normalized returns a copy with defaults filled in.
func (o PageOptions) Normalized() PageOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.SortField == "" {
		o.SortField = DefaultSortField
	}
	if o.SortOrder != SortDescending {
		o.SortOrder = SortAscending
	}
	return o
}

// Skip returns the number of documents to skip for the page window.
func (o PageOptions) Skip() int64 {
	n := o.Normalized()
	return (n.Page - 1) * n.Limit
}

// Pagination is the response-side companion of PageOptions. TotalRecords is
// a full count independent of the page window.
type Pagination struct {
	Page         int64 `json:"page"`
	Limit        int64 `json:"limit"`
	TotalRecords int64 `json:"totalRecords"`
	TotalPages   int64 `json:"totalPages"`
}

// NewPagination computes the response pagination for a normalized request
// and a total record count.
func NewPagination(opts PageOptions, totalRecords int64) Pagination {
	n := opts.Normalized()
	totalPages := totalRecords / n.Limit
	if totalRecords%n.Limit != 0 {
		totalPages++
	}
	return Pagination{
		Page:         n.Page,
		Limit:        n.Limit,
		TotalRecords: totalRecords,
		TotalPages:   totalPages,
	}
}

// Page is one window of a list result.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
