package domain

import (
	"maps"
	"slices"
)

// SortKey selects the field results are ordered by.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortName      SortKey = "name"
	SortAge       SortKey = "age"
	SortRating    SortKey = "rating"
	SortLocation  SortKey = "location"
)

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortRelevance, SortName, SortAge, SortRating, SortLocation:
		return true
	}
	return false
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is a known sort order.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Default filter bounds. Criteria equal to these are the identity filter.
const (
	DefaultMinAge    = 18
	DefaultMaxAge    = 65
	DefaultMinRating = 0.0
	MaxRating        = 5.0
)

// AgeRange bounds a person's age. Min is exclusive and Max inclusive when filtering.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Set is a string set. The zero value is an empty set ready to use read-only.
type Set map[string]struct{}

// NewSet builds a set from values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// FilterCriteria is the full client-side filter and sort selection.
type FilterCriteria struct {
	AgeRange  AgeRange
	Locations Set
	Companies Set
	MinRating float64
	SortBy    SortKey
	SortOrder SortOrder
}

// DefaultFilterCriteria returns the identity filter.
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		AgeRange:  AgeRange{Min: DefaultMinAge, Max: DefaultMaxAge},
		Locations: Set{},
		Companies: Set{},
		MinRating: DefaultMinRating,
		SortBy:    SortRelevance,
		SortOrder: SortDesc,
	}
}

// Clone returns a deep copy.
func (c FilterCriteria) Clone() FilterCriteria {
	c.Locations = c.Locations.Clone()
	c.Companies = c.Companies.Clone()
	return c
}
