package list

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/model"
)

// Fetcher loads one page of T narrowed by a filter of type F.
type Fetcher[T any, F comparable] func(ctx context.Context, pageIndex, pageSize int, filter F) (*model.PagedResponse[T], error)

// Remover deletes one record by id.
type Remover func(ctx context.Context, id int) error

// Confirm asks the user a yes/no question before a destructive action.
type Confirm func(prompt string) bool

// NoFilter is the filter type of collections that cannot be narrowed.
type NoFilter struct{}

// Snapshot is a consistent read of a controller for rendering.
type Snapshot[T any, F comparable] struct {
	Page        model.PagedResponse[T]
	PageIndex   int
	Filter      F
	Loading     bool
	HasPrevious bool
	HasNext     bool
}

// Pager is the type-independent part of a snapshot used to render paging
// controls and the "Showing X to Y of N" summary.
type Pager struct {
	PageIndex   int
	TotalPages  int
	TotalCount  int
	FirstItem   int
	LastItem    int
	HasPrevious bool
	HasNext     bool
}

// Pager extracts the paging state of s.
func (s Snapshot[T, F]) Pager() Pager {
	return Pager{
		PageIndex:   s.PageIndex,
		TotalPages:  s.Page.TotalPages,
		TotalCount:  s.Page.TotalCount,
		FirstItem:   s.Page.FirstItem(),
		LastItem:    s.Page.LastItem(),
		HasPrevious: s.HasPrevious,
		HasNext:     s.HasNext,
	}
}

// Controller owns one page of results, the current page index and filter.
//
// Loads are not serialised: two overlapping loads both apply their result
// in completion order, and the loading flag is cleared by whichever
// finishes first.
type Controller[T any, F comparable] struct {
	mu        sync.Mutex
	fetch     Fetcher[T, F]
	remove    Remover
	noun      string
	pageSize  int
	page      model.PagedResponse[T]
	pageIndex int
	filter    F
	loading   bool
	synced    bool
	seen      uint64
	log       zerolog.Logger
}

// NewController builds a controller for the collection named noun
// (used in log lines and confirmation prompts).
func NewController[T any, F comparable](noun string, pageSize int, fetch Fetcher[T, F], remove Remover, log zerolog.Logger) *Controller[T, F] {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Controller[T, F]{
		fetch:     fetch,
		remove:    remove,
		noun:      noun,
		pageSize:  pageSize,
		page:      model.NewPagedResponse[T](nil, 0, 1, pageSize),
		pageIndex: 1,
		log:       log.With().Str("component", noun+"_list").Logger(),
	}
}

// Load fetches pageIndex with filter. On success the page, index and
// filter are replaced; on failure the error is logged and the previous
// page stays visible. The loading flag is always cleared.
func (c *Controller[T, F]) Load(ctx context.Context, pageIndex int, filter F) {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	page, err := c.fetch(ctx, pageIndex, c.pageSize, filter)
	if err != nil {
		c.log.Error().Err(err).Int("page_index", pageIndex).Msg("Failed to load " + c.noun)
		return
	}

	c.mu.Lock()
	c.page = *page
	if c.page.Items == nil {
		c.page.Items = []T{}
	}
	c.pageIndex = pageIndex
	c.filter = filter
	c.mu.Unlock()
}

// Reload fetches the last active page with the last active filter.
func (c *Controller[T, F]) Reload(ctx context.Context) {
	c.mu.Lock()
	pageIndex, filter := c.pageIndex, c.filter
	c.mu.Unlock()
	c.Load(ctx, pageIndex, filter)
}

// Sync reloads when the controller has never loaded or when signal
// differs from the last refresh value it observed. It reports whether a
// reload happened.
func (c *Controller[T, F]) Sync(ctx context.Context, signal uint64) bool {
	c.mu.Lock()
	if c.synced && c.seen == signal {
		c.mu.Unlock()
		return false
	}
	c.synced = true
	c.seen = signal
	c.mu.Unlock()

	c.Reload(ctx)
	return true
}

// GoTo moves to pageIndex keeping the active filter. Out-of-range
// requests are ignored, matching the disabled pager buttons.
func (c *Controller[T, F]) GoTo(ctx context.Context, pageIndex int) {
	c.mu.Lock()
	filter := c.filter
	allowed := pageIndex >= 1 && (pageIndex == 1 || pageIndex <= c.page.TotalPages)
	c.mu.Unlock()
	if !allowed {
		return
	}
	c.Load(ctx, pageIndex, filter)
}

// Remove asks confirm before deleting id. After a successful delete the
// current page is reloaded as is, even if it is now empty. Failures are
// logged and reported as false.
func (c *Controller[T, F]) Remove(ctx context.Context, id int, confirm Confirm) bool {
	if confirm == nil || !confirm(c.DeletePrompt()) {
		return false
	}
	if err := c.remove(ctx, id); err != nil {
		c.log.Error().Err(err).Int("id", id).Msg("Failed to delete " + c.noun)
		return false
	}
	c.Reload(ctx)
	return true
}

// DeletePrompt is the confirmation question shown before a delete.
func (c *Controller[T, F]) DeletePrompt() string {
	return "Are you sure you want to delete this " + singular(c.noun) + "?"
}

// Snapshot returns the current state for rendering.
func (c *Controller[T, F]) Snapshot() Snapshot[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()

	page := c.page
	page.Items = append([]T{}, c.page.Items...)
	return Snapshot[T, F]{
		Page:        page,
		PageIndex:   c.pageIndex,
		Filter:      c.filter,
		Loading:     c.loading,
		HasPrevious: c.pageIndex > 1,
		HasNext:     c.page.TotalPages > 0 && c.pageIndex < c.page.TotalPages,
	}
}

// Items returns the records on the current page.
func (c *Controller[T, F]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T{}, c.page.Items...)
}

func (c *Controller[T, F]) PageIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageIndex
}

func singular(noun string) string {
	if n := len(noun); n > 1 && noun[n-1] == 's' {
		return noun[:n-1]
	}
	return noun
}
