// Package pagination tracks the page cursor of the current result list and
// guards against overlapping fetches.
package pagination

import (
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

// Kind distinguishes a fresh search from a load-more request.
type Kind int

const (
	Fresh Kind = iota
	LoadMore
)

func (k Kind) String() string {
	if k == LoadMore {
		return "load_more"
	}
	return "fresh"
}

// Page is a successful backend response as seen by the controller.
type Page struct {
	Count        int
	TotalResults int
	HasMore      bool
}

// Update is a partial pagination change. Nil fields are left alone.
type Update struct {
	CurrentPage  *int
	PageSize     *int
	TotalResults *int
	HasMore      *bool
}

// Snapshot is a consistent read of the controller state.
type Snapshot struct {
	domain.Pagination
	Loading      bool `json:"loading"`
	DisplayTotal int  `json:"displayTotal"`
}

// Controller owns the pagination state. At most one fetch may be in flight;
// Begin refuses, never queues, while one is outstanding.
type Controller struct {
	mu       sync.Mutex
	inFlight *semaphore.Weighted
	state    domain.Pagination
	loading  bool
	// saved is the state before a Fresh reset, restored by Abort.
	saved    *domain.Pagination
	cache    *ResultCache
}

// NewController creates a controller on page 1 with the given page size.
func NewController(pageSize int, cache *ResultCache) *Controller {
	if cache == nil {
		cache = NewResultCache()
	}
	return &Controller{
		inFlight: semaphore.NewWeighted(1),
		state:    domain.Pagination{CurrentPage: 1, PageSize: pageSize},
		cache:    cache,
	}
}

// Begin enters the loading state for a fetch of the given kind. It returns
// false, changing nothing, when a fetch is already in flight or, for
// LoadMore, when there is nothing more to load. A true result must be paired
// with a deferred End.
func (c *Controller) Begin(kind Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if kind == LoadMore && !c.state.HasMore {
		return false
	}
	if !c.inFlight.TryAcquire(1) {
		return false
	}

	c.loading = true
	if kind == Fresh {
		saved := c.state
		c.saved = &saved
		// HasMore is held until new data arrives.
		c.state.CurrentPage = 1
		c.state.TotalResults = 0
	}
	return true
}

// NextPage returns the page number a fetch of kind should request.
func (c *Controller) NextPage(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if kind == LoadMore {
		return c.state.CurrentPage + 1
	}
	return 1
}

// Complete applies a successful response. The page cursor advances only for LoadMore.
func (c *Controller) Complete(kind Kind, p Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if kind == LoadMore {
		c.state.CurrentPage++
	}
	c.state.TotalResults = p.TotalResults
	c.state.HasMore = p.HasMore
	c.saved = nil
	c.cache.Remember(p.TotalResults)
}

// Abort undoes the Fresh reset of a fetch that failed, so the cursor matches
// the results still on screen. Call it before End.
func (c *Controller) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading && c.saved != nil {
		c.state = *c.saved
	}
	c.saved = nil
}

// End leaves the loading state and releases the fetch guard.
func (c *Controller) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loading {
		return
	}
	c.loading = false
	c.saved = nil
	c.inFlight.Release(1)
}

// Update applies a partial change. While loading, a zero total never
// overwrites a nonzero one.
func (c *Controller) Update(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if u.CurrentPage != nil && *u.CurrentPage >= 1 {
		c.state.CurrentPage = *u.CurrentPage
	}
	if u.PageSize != nil && *u.PageSize >= 1 {
		c.state.PageSize = *u.PageSize
	}
	if u.TotalResults != nil {
		total := max(*u.TotalResults, 0)
		if !(c.loading && total == 0 && c.state.TotalResults > 0) {
			c.state.TotalResults = total
		}
		c.cache.Remember(total)
	}
	if u.HasMore != nil {
		c.state.HasMore = *u.HasMore
	}
}

// Reset returns to page 1 with no results. Used when the query is cleared.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = domain.Pagination{CurrentPage: 1, PageSize: c.state.PageSize}
	c.saved = nil
}

// Loading reports whether a fetch is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Snapshot returns the current state and the derived display total.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Pagination:   c.state,
		Loading:      c.loading,
		DisplayTotal: DisplayTotal(c.state.TotalResults, c.cache.LastNonzero(), c.loading),
	}
}
