// Package history keeps the current query text and a bounded, deduplicated
// list of previously submitted queries.
package history

import (
	"strings"
	"sync"
)

const (
	// MaxEntries is the number of distinct queries kept; the oldest is evicted first.
	MaxEntries = 50
	// RecentCount is the number of entries returned by Recent.
	RecentCount = 5
)

// Session owns the query text and history for one application session.
type Session struct {
	mu          sync.RWMutex
	current     string
	hasSearched bool
	entries     []string
}

// New creates an empty session.
func New() *Session {
	return &Session{entries: make([]string, 0, MaxEntries)}
}

// SetQuery stores text verbatim as the current query.
func (s *Session) SetQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = text
	if text != "" {
		s.hasSearched = true
	}
}

// Current returns the current query exactly as last set.
func (s *Session) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// HasSearched reports whether a non-empty query was ever set.
func (s *Session) HasSearched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasSearched
}

// Add appends the trimmed text to history. Blank input and entries already
// present are ignored; repeats are not moved to the end.
func (s *Session) Add(text string) {
	q := strings.TrimSpace(text)
	if q == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e == q {
			return
		}
	}
	if len(s.entries) >= MaxEntries {
		s.entries = append(s.entries[:0], s.entries[len(s.entries)-MaxEntries+1:]...)
	}
	s.entries = append(s.entries, q)
}

// Recent returns up to RecentCount entries, most recent first.
func (s *Session) Recent() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := min(RecentCount, len(s.entries))
	out := make([]string, 0, n)
	for i := len(s.entries) - 1; i >= len(s.entries)-n; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// All returns every entry, oldest first.
func (s *Session) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.entries...)
}

// Clear drops all history. The current query is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}
