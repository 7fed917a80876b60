// Package deploy manages the collection of deployed strategies: the
// copy-on-write in-memory store, its local snapshot mirror, and the
// lifecycle operations against the remote persistence backend.
package deploy

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trade-station/internal/models"
)

// Store is the single shared mutable collection of deployed strategies.
// All mutations go through whole-record replacement so a reader never
// observes a partially updated record. Every change is mirrored to the
// local snapshot; snapshot failures are logged, never surfaced.
type Store struct {
	mu         sync.RWMutex
	strategies map[uuid.UUID]*models.DeployedStrategy
	snapshot   Snapshot
	logger     *logrus.Logger
}

// NewStore creates an empty store backed by the given snapshot
func NewStore(snapshot Snapshot, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		strategies: make(map[uuid.UUID]*models.DeployedStrategy),
		snapshot:   snapshot,
		logger:     logger,
	}
}

// Restore loads the snapshot contents into the store. Used at startup and
// as the fallback when the remote fetch fails or returns empty.
func (s *Store) Restore(ctx context.Context) error {
	if s.snapshot == nil {
		return nil
	}
	strategies, err := s.snapshot.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies = make(map[uuid.UUID]*models.DeployedStrategy, len(strategies))
	for _, strategy := range strategies {
		s.strategies[strategy.ID] = strategy.Clone()
	}
	s.logger.WithField("count", len(strategies)).Info("Deployed strategies restored from snapshot")
	return nil
}

// List returns clones of all deployed strategies ordered by start time
func (s *Store) List() []*models.DeployedStrategy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.DeployedStrategy, 0, len(s.strategies))
	for _, strategy := range s.strategies {
		out = append(out, strategy.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Running returns clones of strategies currently in the running state
func (s *Store) Running() []*models.DeployedStrategy {
	all := s.List()
	out := all[:0]
	for _, strategy := range all {
		if strategy.IsRunning() {
			out = append(out, strategy)
		}
	}
	return out
}

// Get returns a clone of one deployed strategy
func (s *Store) Get(id uuid.UUID) (*models.DeployedStrategy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	strategy, ok := s.strategies[id]
	if !ok {
		return nil, false
	}
	return strategy.Clone(), true
}

// Put inserts or replaces a whole record
func (s *Store) Put(ctx context.Context, strategy *models.DeployedStrategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies[strategy.ID] = strategy.Clone()
	s.persistLocked(ctx)
}

// Update applies fn to a copy of the record and swaps the result in.
// Returns false without calling fn when the id is absent, which makes a
// stray tick against a removed strategy a safe no-op.
func (s *Store) Update(ctx context.Context, id uuid.UUID, fn func(models.DeployedStrategy) models.DeployedStrategy) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.strategies[id]
	if !ok {
		return false
	}
	next := fn(*current.Clone())
	s.strategies[id] = next.Clone()
	s.persistLocked(ctx)
	return true
}

// UpdateRunning is Update restricted to running strategies. The simulator
// and trade synthesizer mutate through this so results arriving after a
// stop or remove are discarded rather than applied to stale state.
func (s *Store) UpdateRunning(ctx context.Context, id uuid.UUID, fn func(models.DeployedStrategy) models.DeployedStrategy) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.strategies[id]
	if !ok || !current.IsRunning() {
		return false
	}
	next := fn(*current.Clone())
	s.strategies[id] = next.Clone()
	s.persistLocked(ctx)
	return true
}

// Remove deletes a record. Returns false when the id is absent.
func (s *Store) Remove(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.strategies[id]; !ok {
		return false
	}
	delete(s.strategies, id)
	s.persistLocked(ctx)
	return true
}

// ReplaceAll swaps the whole collection, used when reconciling with the
// remote backend. An empty remote result leaves the local collection
// untouched so the UI keeps working offline.
func (s *Store) ReplaceAll(ctx context.Context, strategies []*models.DeployedStrategy) {
	if len(strategies) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[uuid.UUID]*models.DeployedStrategy, len(strategies))
	for _, strategy := range strategies {
		next[strategy.ID] = strategy.Clone()
	}
	s.strategies = next
	s.persistLocked(ctx)
}

// Count returns the number of deployed strategies
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.strategies)
}

// Flush rewrites the snapshot from current state
func (s *Store) Flush(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.snapshot == nil {
		return
	}
	strategies := make([]*models.DeployedStrategy, 0, len(s.strategies))
	for _, strategy := range s.strategies {
		strategies = append(strategies, strategy.Clone())
	}
	sort.Slice(strategies, func(i, j int) bool { return strategies[i].StartedAt.Before(strategies[j].StartedAt) })

	if err := s.snapshot.Save(ctx, strategies); err != nil {
		s.logger.WithError(err).Warn("Failed to write deployed strategies snapshot")
	}
}
