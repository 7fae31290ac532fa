package transport

import (
	"github.com/jimmyqian/sovra-ui-sub000/internal/conversation"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/pagination"
)

// SubmitRequest carries the raw query text. Sanitation and length checks
// happen in the engine so the rejection is recorded on the session.
type SubmitRequest struct {
	Query string `json:"query"`
}

type ConverseRequest struct {
	Message string `json:"message"`
}

type DetailRequest struct {
	Name  string `form:"name" validate:"required,max=200"`
	Index int    `form:"index" validate:"min=0"`
}

// FiltersRequest is a partial filter update. Omitted fields are unchanged.
// Ranges are clamped by the engine, so only shape is validated here.
type FiltersRequest struct {
	MinAge    *int     `json:"minAge" validate:"omitempty,min=0,max=150"`
	MaxAge    *int     `json:"maxAge" validate:"omitempty,min=0,max=150"`
	MinRating *float64 `json:"minRating"`
	Locations []string `json:"locations" validate:"omitempty,dive,required"`
	Companies []string `json:"companies" validate:"omitempty,dive,required"`
	SortBy    *string  `json:"sortBy" validate:"omitempty,sort_key"`
	SortOrder *string  `json:"sortOrder" validate:"omitempty,sort_order"`
}

type FiltersResponse struct {
	MinAge    int      `json:"minAge"`
	MaxAge    int      `json:"maxAge"`
	Locations []string `json:"locations"`
	Companies []string `json:"companies"`
	MinRating float64  `json:"minRating"`
	SortBy    string   `json:"sortBy"`
	SortOrder string   `json:"sortOrder"`
	Active    bool     `json:"active"`
	Count     int      `json:"count"`
}

type SessionResponse struct {
	Query              string                `json:"query"`
	ActiveQuery        string                `json:"activeQuery"`
	HasSearched        bool                  `json:"hasSearched"`
	Results            []domain.SearchResult `json:"results"`
	FilteredResults    []domain.SearchResult `json:"filteredResults"`
	AvailableLocations []string              `json:"availableLocations"`
	Pagination         pagination.Snapshot   `json:"pagination"`
	Loading            bool                  `json:"loading"`
	Error              string                `json:"error,omitempty"`
	RecentQueries      []string              `json:"recentQueries"`
	Lightbox           domain.LightboxState  `json:"lightbox"`
	Filters            FiltersResponse       `json:"filters"`
	Conversation       *conversation.Turn    `json:"conversation,omitempty"`
}

type HistoryResponse struct {
	Recent []string `json:"recent"`
	All    []string `json:"all"`
}

type DetailResponse struct {
	Name     string `json:"name"`
	Index    int    `json:"index"`
	Response string `json:"response"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
