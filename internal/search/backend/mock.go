package backend

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

const (
	// DefaultSearchLatency is the simulated round-trip of a search.
	DefaultSearchLatency = 500 * time.Millisecond
	// DefaultUploadLatency is the simulated round-trip of a file upload.
	DefaultUploadLatency = time.Second

	minTotal = 12
	maxTotal = 240
)

// ErrEmptyFilename is returned by Upload when no file name is given.
var ErrEmptyFilename = errors.New("file name is required")

// MockOptions configures a Mock. Zero values select the defaults.
type MockOptions struct {
	SearchLatency time.Duration
	UploadLatency time.Duration
	Clock         Clock
	// Rand supplies decorative randomness. Result content is seeded per query and page.
	Rand *rand.Rand
}

// Mock simulates the search backend: it waits out a latency, then generates
// a page of people. Totals depend only on the query, so repeated searches
// for the same text agree on the result count.
type Mock struct {
	searchLatency time.Duration
	uploadLatency time.Duration
	clock         Clock

	mu       sync.Mutex
	rng      *rand.Rand
	failNext error
}

// NewMock creates a simulated backend.
func NewMock(opts MockOptions) *Mock {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Mock{
		searchLatency: opts.SearchLatency,
		uploadLatency: opts.UploadLatency,
		clock:         opts.Clock,
		rng:           opts.Rand,
	}
}

// FailNext makes the next Search return err after its latency.
func (m *Mock) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Search returns req.PageSize generated people for req.Page.
func (m *Mock) Search(ctx context.Context, req SearchRequest) (Page, error) {
	if err := wait(ctx, m.clock, m.searchLatency); err != nil {
		return Page{}, err
	}

	m.mu.Lock()
	failure := m.failNext
	m.failNext = nil
	m.mu.Unlock()
	if failure != nil {
		return Page{}, failure
	}

	page := max(req.Page, 1)
	size := max(req.PageSize, 1)
	total := TotalFor(req.Query)
	offset := (page - 1) * size
	count := max(min(size, total-offset), 0)

	key := strings.ToLower(req.Query)
	content := rand.New(rand.NewPCG(querySeed(key), uint64(page)))
	results := make([]domain.SearchResult, 0, count)
	for i := 0; i < count; i++ {
		person := GeneratePerson(content, key, offset+i)
		person.AvatarURL = m.avatar()
		results = append(results, person)
	}

	return Page{
		Results:      results,
		TotalResults: total,
		HasMore:      page*size < total,
	}, nil
}

// Upload simulates accepting a file.
func (m *Mock) Upload(ctx context.Context, filename string) (UploadResult, error) {
	if strings.TrimSpace(filename) == "" {
		return UploadResult{}, ErrEmptyFilename
	}
	if err := wait(ctx, m.clock, m.uploadLatency); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{
		Success: true,
		Message: fmt.Sprintf("File %s uploaded successfully", filename),
	}, nil
}

func (m *Mock) avatar() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return AvatarURL(m.rng)
}

// TotalFor returns the simulated total result count for query.
func TotalFor(query string) int {
	return minTotal + int(querySeed(query)%uint64(maxTotal-minTotal+1))
}

func querySeed(query string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(query)))
	return h.Sum64()
}

var (
	_ Searcher = (*Mock)(nil)
	_ Uploader = (*Mock)(nil)
)
