// Package backend defines the search backend boundary and a simulated
// implementation that generates people locally after a fixed latency.
package backend

import (
	"context"
	"time"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

// SearchRequest asks for one page of results.
type SearchRequest struct {
	Query    string
	Page     int
	PageSize int
}

// Page is one page of results and the cursor information for the query.
type Page struct {
	Results      []domain.SearchResult
	TotalResults int
	HasMore      bool
}

// UploadResult reports a simulated file upload. Message embeds the file name verbatim.
type UploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Searcher fetches a page of search results.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (Page, error)
}

// Uploader accepts a file by name.
type Uploader interface {
	Upload(ctx context.Context, filename string) (UploadResult, error)
}

// Clock schedules the simulated latency. Tests substitute a manual clock.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

// wait blocks for d on clock, returning early with ctx's error if it is done first.
func wait(ctx context.Context, clock Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}
