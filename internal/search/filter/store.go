package filter

import (
	"sync"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

// Store holds the current criteria. Setters validate on write so reads never
// see an inverted age range or an out-of-range rating.
type Store struct {
	mu       sync.RWMutex
	criteria domain.FilterCriteria
}

// NewStore creates a store holding the default criteria.
func NewStore() *Store {
	return &Store{criteria: domain.DefaultFilterCriteria()}
}

// Criteria returns a copy of the current criteria.
func (s *Store) Criteria() domain.FilterCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria.Clone()
}

// SetAgeRange stores the range, swapping min and max when inverted.
func (s *Store) SetAgeRange(minAge, maxAge int) {
	if minAge > maxAge {
		minAge, maxAge = maxAge, minAge
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.AgeRange = domain.AgeRange{Min: minAge, Max: maxAge}
}

// SetMinRating stores the rating clamped to [0, 5].
func (s *Store) SetMinRating(rating float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.MinRating = min(max(rating, domain.DefaultMinRating), domain.MaxRating)
}

// SetLocations replaces the location selection.
func (s *Store) SetLocations(locations ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Locations = domain.NewSet(locations...)
}

// SetCompanies replaces the company selection.
func (s *Store) SetCompanies(companies ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Companies = domain.NewSet(companies...)
}

// ToggleLocation adds the location if absent and removes it otherwise.
func (s *Store) ToggleLocation(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	toggle(s.criteria.Locations, location)
}

// ToggleCompany adds the company if absent and removes it otherwise.
func (s *Store) ToggleCompany(company string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	toggle(s.criteria.Companies, company)
}

// SetSort stores the sort key and order. Unknown values fall back to the defaults.
func (s *Store) SetSort(key domain.SortKey, order domain.SortOrder) {
	if !key.Valid() {
		key = domain.SortRelevance
	}
	if !order.Valid() {
		order = domain.SortDesc
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.SortBy = key
	s.criteria.SortOrder = order
}

// Reset restores the default criteria.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = domain.DefaultFilterCriteria()
}

func toggle(set domain.Set, v string) {
	if set.Has(v) {
		delete(set, v)
		return
	}
	set[v] = struct{}{}
}
