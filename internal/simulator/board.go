package simulator

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/trade-station/internal/models"
)

// Board holds the ephemeral per-strategy activity records, keyed by
// strategy id. Records are recreated whenever missing for a running
// strategy and dropped when the strategy disappears from the store.
type Board struct {
	mu     sync.RWMutex
	states map[uuid.UUID]models.ActivityState
}

// NewBoard creates an empty activity board
func NewBoard() *Board {
	return &Board{states: make(map[uuid.UUID]models.ActivityState)}
}

// Get returns the activity state for a strategy
func (b *Board) Get(id uuid.UUID) (models.ActivityState, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	state, ok := b.states[id]
	return state, ok
}

// Set replaces the whole activity record for a strategy
func (b *Board) Set(state models.ActivityState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states[state.StrategyID] = state
}

// SetMessage updates only the status message, keeping counters
func (b *Board) SetMessage(id uuid.UUID, message models.ActivityMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, ok := b.states[id]
	if !ok {
		state = models.ActivityState{StrategyID: id}
	}
	state.Message = message
	state.LastActive = time.Now().UTC()
	b.states[id] = state
}

// Prune drops records whose strategy id is not in keep
func (b *Board) Prune(keep map[uuid.UUID]struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id := range b.states {
		if _, ok := keep[id]; !ok {
			delete(b.states, id)
		}
	}
}

// List returns a copy of all activity records
func (b *Board) List() []models.ActivityState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.ActivityState, 0, len(b.states))
	for _, state := range b.states {
		out = append(out, state)
	}
	return out
}
