// Package filter narrows and orders an in-memory result list. Apply is pure;
// Store holds the user's current selection and enforces bounds on write.
package filter

import (
	"cmp"
	"slices"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

// Apply returns the results passing every predicate of c, ordered by c's sort.
// The input slice is never modified.
func Apply(results []domain.SearchResult, c domain.FilterCriteria) []domain.SearchResult {
	out := make([]domain.SearchResult, 0, len(results))

	// Results carry only a company count, never names, so no result can
	// match a company selection.
	if len(c.Companies) > 0 {
		return out
	}

	for _, r := range results {
		if !matchesAge(r, c.AgeRange) {
			continue
		}
		if len(c.Locations) > 0 && !c.Locations.Has(r.Location) {
			continue
		}
		if r.Rating < c.MinRating {
			continue
		}
		out = append(out, r)
	}

	sortResults(out, c.SortBy, c.SortOrder)
	return out
}

// matchesAge keeps min exclusive and max inclusive.
func matchesAge(r domain.SearchResult, ar domain.AgeRange) bool {
	return r.Age > ar.Min && r.Age <= ar.Max
}

func sortResults(results []domain.SearchResult, key domain.SortKey, order domain.SortOrder) {
	compare := comparator(key)
	if compare == nil {
		return
	}
	if order == domain.SortDesc {
		asc := compare
		compare = func(a, b domain.SearchResult) int { return asc(b, a) }
	}
	slices.SortStableFunc(results, compare)
}

func comparator(key domain.SortKey) func(a, b domain.SearchResult) int {
	switch key {
	case domain.SortName:
		return func(a, b domain.SearchResult) int { return cmp.Compare(a.Name, b.Name) }
	case domain.SortAge:
		return func(a, b domain.SearchResult) int { return cmp.Compare(a.Age, b.Age) }
	case domain.SortRating:
		return func(a, b domain.SearchResult) int { return cmp.Compare(a.Rating, b.Rating) }
	case domain.SortLocation:
		return func(a, b domain.SearchResult) int { return cmp.Compare(a.Location, b.Location) }
	default:
		// relevance keeps backend order
		return nil
	}
}

// IsActive reports whether c differs from the defaults in any field.
func IsActive(c domain.FilterCriteria) bool {
	return ActiveCount(c) > 0
}

// ActiveCount counts the criteria groups that differ from the defaults:
// age range, locations, companies, rating and sort each count once.
func ActiveCount(c domain.FilterCriteria) int {
	d := domain.DefaultFilterCriteria()
	n := 0
	if c.AgeRange != d.AgeRange {
		n++
	}
	if len(c.Locations) > 0 {
		n++
	}
	if len(c.Companies) > 0 {
		n++
	}
	if c.MinRating != d.MinRating {
		n++
	}
	if c.SortBy != d.SortBy || c.SortOrder != d.SortOrder {
		n++
	}
	return n
}

// AvailableLocations returns the distinct locations in results, sorted.
func AvailableLocations(results []domain.SearchResult) []string {
	set := domain.Set{}
	for _, r := range results {
		if r.Location != "" {
			set[r.Location] = struct{}{}
		}
	}
	return set.Sorted()
}
