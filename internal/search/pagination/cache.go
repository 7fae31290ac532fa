package pagination

import "sync"

// ResultCache remembers the last nonzero total seen this session so the UI
// never flashes zero while a refetch is loading.
type ResultCache struct {
	mu          sync.RWMutex
	lastNonzero int
}

// NewResultCache creates an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{}
}

// Remember records total if it is nonzero.
func (c *ResultCache) Remember(total int) {
	if total <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastNonzero = total
}

// LastNonzero returns the last nonzero total, or 0 if none was seen.
func (c *ResultCache) LastNonzero() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastNonzero
}

// DisplayTotal returns the total to show. While loading, a live zero is
// replaced by the last nonzero total; otherwise the live value is shown.
func DisplayTotal(live, lastNonzero int, loading bool) int {
	if loading && live == 0 && lastNonzero > 0 {
		return lastNonzero
	}
	return live
}
