// Package events defines the events the search session publishes: fetch
// lifecycle and lightbox display. Bus infrastructure is in platform/events
// and re-exported here so callers need a single import.
package events

import (
	"github.com/jimmyqian/sovra-ui-sub000/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Search Domain Events
// =============================================================================

const (
	NameSearchSubmitted = "search.submitted"
	NameSearchCompleted = "search.completed"
	NameSearchFailed    = "search.failed"
	NameLightboxShown   = "lightbox.shown"
)

// SearchSubmitted is published when a fetch is issued to the backend.
// FetchID correlates it with the SearchCompleted or SearchFailed that follows.
type SearchSubmitted struct {
	BaseEvent
	FetchID uuid.UUID `json:"fetchId"`
	Query   string    `json:"query"`
	Fresh   bool      `json:"fresh"`
	Page    int       `json:"page"`
}

func (e SearchSubmitted) EventName() string { return NameSearchSubmitted }

// SearchCompleted is published after a successful fetch was applied.
type SearchCompleted struct {
	BaseEvent
	FetchID      uuid.UUID `json:"fetchId"`
	Query        string    `json:"query"`
	Fresh        bool      `json:"fresh"`
	Count        int       `json:"count"`
	TotalResults int       `json:"totalResults"`
	HasMore      bool      `json:"hasMore"`
}

func (e SearchCompleted) EventName() string { return NameSearchCompleted }

// SearchFailed is published when the backend rejects a fetch.
type SearchFailed struct {
	BaseEvent
	FetchID uuid.UUID `json:"fetchId"`
	Query   string    `json:"query"`
	Fresh   bool      `json:"fresh"`
	Error   string    `json:"error"`
}

func (e SearchFailed) EventName() string { return NameSearchFailed }

// =============================================================================
// Lightbox Domain Events
// =============================================================================

// LightboxShown is published when a submission surfaces a promotion.
type LightboxShown struct {
	BaseEvent
	ItemURL     string `json:"itemUrl"`
	SearchCount int    `json:"searchCount"`
}

func (e LightboxShown) EventName() string { return NameLightboxShown }
