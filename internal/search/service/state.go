package service

import (
	"slices"

	"github.com/jimmyqian/sovra-ui-sub000/internal/conversation"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/filter"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/pagination"
)

// State is a read-only view of the session. Derived values are recomputed
// on every read.
type State struct {
	Query         string
	ActiveQuery   string
	HasSearched   bool
	Results       []domain.SearchResult
	Filtered      []domain.SearchResult
	Pagination    pagination.Snapshot
	Error         string
	RecentQueries []string
	Lightbox      domain.LightboxState
	Filters       domain.FilterCriteria
	FilterActive  bool
	FilterCount   int
	Turn          *conversation.Turn
}

// Loading reports whether a fetch was in flight when the state was read.
func (st State) Loading() bool {
	return st.Pagination.Loading
}

// State returns a snapshot of the session.
func (s *Service) State() State {
	criteria := s.filters.Criteria()

	s.mu.RLock()
	results := slices.Clone(s.results)
	active := s.activeQuery
	lastErr := s.lastError
	s.mu.RUnlock()

	st := State{
		Query:         s.queries.Current(),
		ActiveQuery:   active,
		HasSearched:   s.queries.HasSearched(),
		Results:       results,
		Filtered:      filter.Apply(results, criteria),
		Pagination:    s.pager.Snapshot(),
		Error:         lastErr,
		RecentQueries: s.queries.Recent(),
		Lightbox:      s.trigger.State(),
		Filters:       criteria,
		FilterActive:  filter.IsActive(criteria),
		FilterCount:   filter.ActiveCount(criteria),
	}
	if turn, ok := s.dialogue.Current(); ok {
		st.Turn = &turn
	}
	return st
}
