// Package lightbox decides when to surface the promotional side panel.
package lightbox

import (
	"math/rand/v2"
	"net"
	"slices"
	"strings"
	"sync"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

// EnvironmentGuard reports whether promotions may be shown in the host environment.
type EnvironmentGuard func() bool

// Always returns a guard with a fixed answer.
func Always(ok bool) EnvironmentGuard {
	return func() bool { return ok }
}

// HostGuard allows promotions when host matches one of allowed, ignoring case
// and any port suffix.
func HostGuard(host string, allowed []string) EnvironmentGuard {
	h := stripPort(strings.ToLower(strings.TrimSpace(host)))
	ok := slices.ContainsFunc(allowed, func(a string) bool {
		return stripPort(strings.ToLower(strings.TrimSpace(a))) == h
	})
	return Always(ok)
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// Decision is the outcome of one search submission.
type Decision struct {
	Show        bool   `json:"show"`
	ItemURL     string `json:"itemUrl,omitempty"`
	SearchCount int    `json:"searchCount"`
}

// Policy counts search submissions and fires on every odd one while the
// guard holds.
type Policy struct {
	mu    sync.Mutex
	items []string
	guard EnvironmentGuard
	rng   *rand.Rand
	state domain.LightboxState
}

// NewPolicy creates a policy over items. A nil guard never fires; a nil rng
// is seeded randomly.
func NewPolicy(items []string, guard EnvironmentGuard, rng *rand.Rand) *Policy {
	if guard == nil {
		guard = Always(false)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Policy{
		items: slices.Clone(items),
		guard: guard,
		rng:   rng,
	}
}

// OnSearch records a submission, whatever its outcome, and decides whether
// to show an item.
func (p *Policy) OnSearch() Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.SearchCount++
	d := Decision{SearchCount: p.state.SearchCount}
	if p.state.SearchCount%2 == 0 || len(p.items) == 0 || !p.guard() {
		return d
	}

	d.Show = true
	d.ItemURL = p.pick()
	p.state.IsVisible = true
	p.state.CurrentItemURL = d.ItemURL
	return d
}

// pick chooses uniformly among items other than the one on display,
// falling back to all items when that leaves none.
func (p *Policy) pick() string {
	candidates := make([]string, 0, len(p.items))
	for _, item := range p.items {
		if item != p.state.CurrentItemURL {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		candidates = p.items
	}
	return candidates[p.rng.IntN(len(candidates))]
}

// Dismiss hides the panel. The current item is remembered so the next pick avoids it.
func (p *Policy) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.IsVisible = false
}

// State returns the current lightbox state.
func (p *Policy) State() domain.LightboxState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
