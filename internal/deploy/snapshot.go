package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/trade-station/internal/models"
)

// SnapshotKey is the key the deployed-strategy collection is mirrored under
const SnapshotKey = "ttm_deployed_strategies"

// Snapshot mirrors the deployed-strategy collection to local storage so the
// station remains usable when the remote backend is unreachable.
type Snapshot interface {
	Save(ctx context.Context, strategies []*models.DeployedStrategy) error
	Load(ctx context.Context) ([]*models.DeployedStrategy, error)
}

// FileSnapshot persists the collection as a single JSON document on disk
type FileSnapshot struct {
	path string
}

// NewFileSnapshot creates a snapshot writing to the given path
func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

type snapshotDocument struct {
	Strategies []*models.DeployedStrategy `json:"ttm_deployed_strategies"`
}

// Save writes the whole collection atomically (write temp file, rename)
func (f *FileSnapshot) Save(ctx context.Context, strategies []*models.DeployedStrategy) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshotDocument{Strategies: strategies}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the collection back. A missing file is an empty collection,
// not an error.
func (f *FileSnapshot) Load(ctx context.Context) ([]*models.DeployedStrategy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return doc.Strategies, nil
}
