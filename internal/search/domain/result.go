// Package domain holds the value types shared by the search session engine.
package domain

// SearchResult is one person returned by a search. Values are never mutated
// after creation; identity is the ID alone.
type SearchResult struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Age           int     `json:"age" yaml:"age"`
	Gender        string  `json:"gender" yaml:"gender"`
	MaritalStatus string  `json:"maritalStatus" yaml:"maritalStatus"`
	Location      string  `json:"location" yaml:"location"`
	Rating        float64 `json:"rating" yaml:"rating"`
	References    int     `json:"references" yaml:"references"`
	// Companies is a count of associated companies; there are no company names.
	Companies int    `json:"companies" yaml:"companies"`
	Contacts  int    `json:"contacts" yaml:"contacts"`
	AvatarURL string `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
}

// Pagination is the cursor state of the current result list.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	PageSize     int  `json:"pageSize"`
	TotalResults int  `json:"totalResults"`
	HasMore      bool `json:"hasMore"`
}

// LightboxState is the promotional panel state for the session.
type LightboxState struct {
	IsVisible      bool   `json:"isVisible"`
	CurrentItemURL string `json:"currentItemUrl"`
	SearchCount    int    `json:"searchCount"`
}
