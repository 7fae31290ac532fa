package conversation

import (
	"sync"

	"github.com/jimmyqian/sovra-ui-sub000/internal/search/domain"
)

// Turn is one round-trip of the dialogue.
type Turn struct {
	Index     int                   `json:"index"`
	Stage     int                   `json:"stage"`
	Response  string                `json:"response"`
	Results   []domain.SearchResult `json:"results"`
	ScriptKey string                `json:"scriptKey"`
	Exhausted bool                  `json:"exhausted"`
}

// Dialogue steps through a script one round-trip at a time. Turn n serves
// response n and stage n; past the end it keeps serving the fallback response
// and the last stage.
type Dialogue struct {
	mu     sync.Mutex
	script Script
	turn   int
	active bool
}

// NewDialogue creates an idle dialogue.
func NewDialogue() *Dialogue {
	return &Dialogue{}
}

// Start replaces the script and returns turn 0.
func (d *Dialogue) Start(s Script) Turn {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.script = s
	d.turn = 0
	d.active = true
	return d.current()
}

// Advance moves to the next turn. It returns false if no script was started.
func (d *Dialogue) Advance() (Turn, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		return Turn{}, false
	}
	d.turn++
	return d.current(), true
}

// Current returns the current turn without advancing.
func (d *Dialogue) Current() (Turn, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		return Turn{}, false
	}
	return d.current(), true
}

// Script returns the active script.
func (d *Dialogue) Script() (Script, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.script, d.active
}

// Reset returns the dialogue to idle.
func (d *Dialogue) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.script = Script{}
	d.turn = 0
	d.active = false
}

func (d *Dialogue) current() Turn {
	return Turn{
		Index:     d.turn,
		Stage:     min(d.turn, StageCount-1),
		Response:  NextResponse(d.script, d.turn),
		Results:   ResultsForStage(d.script, d.turn),
		ScriptKey: d.script.Key,
		Exhausted: d.turn >= ResponseCount,
	}
}
