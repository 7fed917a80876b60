package deploy

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trade-station/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func runningStrategy(name string, startedAt time.Time) *models.DeployedStrategy {
	return &models.DeployedStrategy{
		ID:        uuid.New(),
		Name:      name,
		Capital:   500,
		Mode:      models.TradingModePaper,
		Status:    models.StrategyStatusRunning,
		Markets:   []models.MarketID{models.MarketKalshi},
		StartedAt: startedAt,
	}
}

func TestStoreListOrderedByStartTime(t *testing.T) {
	store := NewStore(nil, quietLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	newest := runningStrategy("newest", now)
	oldest := runningStrategy("oldest", now.Add(-2*time.Hour))
	middle := runningStrategy("middle", now.Add(-1*time.Hour))

	store.Put(ctx, newest)
	store.Put(ctx, oldest)
	store.Put(ctx, middle)

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, "oldest", list[0].Name)
	assert.Equal(t, "middle", list[1].Name)
	assert.Equal(t, "newest", list[2].Name)
}

func TestStoreReturnsClones(t *testing.T) {
	store := NewStore(nil, quietLogger())
	ctx := context.Background()

	strategy := runningStrategy("original", time.Now().UTC())
	store.Put(ctx, strategy)

	// Mutating the caller's record must not leak into the store
	strategy.PnL = -999

	got, ok := store.Get(strategy.ID)
	require.True(t, ok)
	assert.Equal(t, 0.0, got.PnL)

	// Mutating a returned clone must not leak either
	got.Trades = 42
	again, _ := store.Get(strategy.ID)
	assert.Equal(t, 0, again.Trades)
}

func TestStoreUpdateRunningSkipsStopped(t *testing.T) {
	store := NewStore(nil, quietLogger())
	ctx := context.Background()

	strategy := runningStrategy("stop-me", time.Now().UTC())
	strategy.Status = models.StrategyStatusStopped
	store.Put(ctx, strategy)

	applied := store.UpdateRunning(ctx, strategy.ID, func(s models.DeployedStrategy) models.DeployedStrategy {
		s.Trades++
		return s
	})
	assert.False(t, applied)

	got, _ := store.Get(strategy.ID)
	assert.Equal(t, 0, got.Trades)
}

func TestStoreUpdateRunningSkipsRemoved(t *testing.T) {
	store := NewStore(nil, quietLogger())
	ctx := context.Background()

	strategy := runningStrategy("remove-me", time.Now().UTC())
	store.Put(ctx, strategy)
	require.True(t, store.Remove(ctx, strategy.ID))

	// A trade result arriving after removal is discarded
	applied := store.UpdateRunning(ctx, strategy.ID, func(s models.DeployedStrategy) models.DeployedStrategy {
		s.Trades++
		return s
	})
	assert.False(t, applied)
	assert.Equal(t, 0, store.Count())
}

func TestStoreReplaceAllIgnoresEmpty(t *testing.T) {
	store := NewStore(nil, quietLogger())
	ctx := context.Background()

	store.Put(ctx, runningStrategy("keep", time.Now().UTC()))
	store.ReplaceAll(ctx, nil)
	assert.Equal(t, 1, store.Count())

	replacement := runningStrategy("replacement", time.Now().UTC())
	store.ReplaceAll(ctx, []*models.DeployedStrategy{replacement})
	assert.Equal(t, 1, store.Count())
	_, ok := store.Get(replacement.ID)
	assert.True(t, ok)
}

func TestFileSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployed.json")
	snapshot := NewFileSnapshot(path)
	ctx := context.Background()

	store := NewStore(snapshot, quietLogger())
	strategy := runningStrategy("persisted", time.Now().UTC().Truncate(time.Second))
	store.Put(ctx, strategy)

	restored := NewStore(snapshot, quietLogger())
	require.NoError(t, restored.Restore(ctx))
	got, ok := restored.Get(strategy.ID)
	require.True(t, ok)
	assert.Equal(t, "persisted", got.Name)
	assert.Equal(t, models.StrategyStatusRunning, got.Status)
}

func TestFileSnapshotMissingFileIsEmpty(t *testing.T) {
	snapshot := NewFileSnapshot(filepath.Join(t.TempDir(), "absent.json"))

	strategies, err := snapshot.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, strategies)
}

func TestStoreRemoveDeletesSnapshotRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployed.json")
	snapshot := NewFileSnapshot(path)
	ctx := context.Background()

	store := NewStore(snapshot, quietLogger())
	strategy := runningStrategy("ephemeral", time.Now().UTC())
	store.Put(ctx, strategy)
	store.Remove(ctx, strategy.ID)

	restored := NewStore(snapshot, quietLogger())
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, 0, restored.Count())
}
