package model

// PagedResponse is one page of records plus paging metadata.
type PagedResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	PageIndex  int `json:"pageIndex"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NewPagedResponse builds a page envelope, normalising a nil slice to empty.
func NewPagedResponse[T any](items []T, totalCount, pageIndex, pageSize int) PagedResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PagedResponse[T]{
		Items:      items,
		TotalCount: totalCount,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalPages: TotalPages(totalCount, pageSize),
	}
}

// TotalPages is ceil(totalCount/pageSize), or 0 for a non-positive page size.
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// FirstItem is the 1-based ordinal of the first record on the page, 0 if empty.
func (p PagedResponse[T]) FirstItem() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.PageIndex-1)*p.PageSize + 1
}

// LastItem is the 1-based ordinal of the last record on the page, 0 if empty.
func (p PagedResponse[T]) LastItem() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.FirstItem() + len(p.Items) - 1
}

// APIError is the error body consumed from the data service.
type APIError struct {
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
