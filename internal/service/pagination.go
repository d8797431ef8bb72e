package service

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page is a normalised page request.
type Page struct {
	Index  int
	Size   int
	Offset int
}

// NormalizePage clamps a requested page: index below 1 becomes 1, size
// below 1 becomes the default and size above the maximum is capped.
func NormalizePage(pageIndex, pageSize int) Page {
	if pageIndex < 1 {
		pageIndex = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return Page{Index: pageIndex, Size: pageSize, Offset: (pageIndex - 1) * pageSize}
}
