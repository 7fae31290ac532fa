package conversation

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/backend"
	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

// Resolver maps queries to scripts. It holds no per-session state.
type Resolver struct {
	scripts []Script
	details []DetailScript
	keys    []string
	dkeys   []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewResolver creates a resolver over the embedded scripts. rng drives the
// decorative fields of generated scripts.
func NewResolver(rng *rand.Rand) *Resolver {
	scripts, details := mustParseEmbedded()
	return newResolver(scripts, details, rng)
}

func newResolver(scripts []Script, details []DetailScript, rng *rand.Rand) *Resolver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r := &Resolver{scripts: scripts, details: details, rng: rng}
	for _, s := range scripts {
		r.keys = append(r.keys, fold(s.Key))
	}
	for _, d := range details {
		r.dkeys = append(r.dkeys, fold(d.Key))
	}
	return r
}

// Keys returns the hand-authored script keys in match order.
func (r *Resolver) Keys() []string {
	out := make([]string, len(r.scripts))
	for i, s := range r.scripts {
		out[i] = s.Key
	}
	return out
}

// Resolve returns the first script whose key occurs in query, ignoring case,
// or a generated default script when none does.
func (r *Resolver) Resolve(query string) Script {
	q := fold(query)
	for i, key := range r.keys {
		if strings.Contains(q, key) {
			return r.scripts[i]
		}
	}
	return r.defaultScript(query)
}

// ResolveDetail returns the detail script for a person's name, or a generated one.
func (r *Resolver) ResolveDetail(name string) DetailScript {
	n := fold(name)
	for i, key := range r.dkeys {
		if strings.Contains(n, key) {
			return r.details[i]
		}
	}
	return defaultDetail(name)
}

// defaultScript builds a script with fixed text and stage sizes. People are
// seeded from the query so content is repeatable; avatars vary.
func (r *Resolver) defaultScript(query string) Script {
	subject := strings.TrimSpace(query)
	if subject == "" {
		subject = "this person"
	}

	key := fold(subject)
	content := rand.New(rand.NewPCG(seedOf(key), uint64(StageSizes[0])))
	people := make([]domain.SearchResult, StageSizes[0])
	r.mu.Lock()
	for i := range people {
		people[i] = backend.GeneratePerson(content, "script:"+key, i)
		people[i].AvatarURL = backend.AvatarURL(r.rng)
	}
	r.mu.Unlock()

	s := Script{Key: subject, Generated: true}
	s.Responses = [ResponseCount]string{
		fmt.Sprintf("I found %d people matching %q. Can you tell me roughly how old they are or where they live?", StageSizes[0], subject),
		fmt.Sprintf("Thanks, that leaves %d likely matches. Do you know their marital status or where they work?", StageSizes[1]),
		fmt.Sprintf("We're down to %d candidates. Do you know anyone they are connected to?", StageSizes[2]),
	}
	for i, size := range StageSizes {
		s.Stages[i] = people[:size:size]
	}
	return s
}

func defaultDetail(name string) DetailScript {
	subject := strings.TrimSpace(name)
	if subject == "" {
		subject = "this person"
	}
	return DetailScript{
		Key:       subject,
		Generated: true,
		Responses: []string{
			fmt.Sprintf("Here is what I know about %s. Would you like to see their contact details?", subject),
			fmt.Sprintf("%s has several references on file. Should I summarize them?", subject),
			fmt.Sprintf("I can run a deeper background check on %s. Want me to start?", subject),
		},
	}
}

// fold normalizes s for case-insensitive matching. A Caser is not safe for
// concurrent use, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func seedOf(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
