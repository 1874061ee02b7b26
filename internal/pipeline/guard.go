package pipeline

import (
	"sync"

	"sectorbrief/internal/model"
)

// GenerationState is the process-local run state for one sector. It is never
// persisted.
type GenerationState struct {
	IsGenerating       bool
	LastGenerationDate string
}

// Guard provides per-sector mutual exclusion over pipeline runs. It is the
// sole mechanism preventing duplicate concurrent research-service calls, so
// a rejected entry must return before any external call is made.
type Guard struct {
	mu     sync.Mutex
	states map[model.Sector]*GenerationState
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{states: make(map[model.Sector]*GenerationState)}
}

// TryEnter atomically claims the sector. It returns false when a run is
// already in flight, in which case the caller must abort without side
// effects.
func (g *Guard) TryEnter(sector model.Sector) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.state(sector)
	if state.IsGenerating {
		return false
	}
	state.IsGenerating = true
	return true
}

// Leave releases the sector. It must run on every exit path; callers defer it
// immediately after a successful TryEnter.
func (g *Guard) Leave(sector model.Sector) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state(sector).IsGenerating = false
}

// MarkRun records the calendar day of the last completed generation.
func (g *Guard) MarkRun(sector model.Sector, date string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state(sector).LastGenerationDate = date
}

// State returns a snapshot of the sector's run state.
func (g *Guard) State(sector model.Sector) GenerationState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return *g.state(sector)
}

func (g *Guard) state(sector model.Sector) *GenerationState {
	st, ok := g.states[sector]
	if !ok {
		st = &GenerationState{}
		g.states[sector] = st
	}
	return st
}
