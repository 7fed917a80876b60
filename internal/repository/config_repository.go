package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/trade-station/internal/database"
	"github.com/yourusername/trade-station/internal/models"
)

const errScanConfig = "failed to scan strategy config: %w"

// PostgresConfigRepository implements ConfigRepository for PostgreSQL.
// The condition and rule structure is stored as a JSONB document so the
// schema survives catalog additions without migrations.
type PostgresConfigRepository struct {
	db *database.DB
}

// NewPostgresConfigRepository creates a new saved-config repository
func NewPostgresConfigRepository(db *database.DB) ConfigRepository {
	return &PostgresConfigRepository{db: db}
}

// Create inserts a new strategy configuration
func (r *PostgresConfigRepository) Create(ctx context.Context, config *models.StrategyConfig) error {
	if config.Name == "" {
		return models.ErrStrategyNameRequired
	}
	if config.ID == uuid.Nil {
		return models.ErrInvalidID
	}

	doc, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal strategy config: %w", err)
	}

	query := `
		INSERT INTO strategy_configs (id, name, type, fingerprint, document)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.GetPool().Exec(ctx, query,
		config.ID, config.Name, string(config.Type), config.Fingerprint(), doc,
	)
	if err != nil {
		return fmt.Errorf("failed to create strategy config: %w", err)
	}

	return nil
}

// GetByID retrieves a strategy configuration by ID
func (r *PostgresConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StrategyConfig, error) {
	query := `
		SELECT document FROM strategy_configs WHERE id = $1
	`

	var doc []byte
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(&doc)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy config: %w", err)
	}

	config := &models.StrategyConfig{}
	if err := json.Unmarshal(doc, config); err != nil {
		return nil, fmt.Errorf(errScanConfig, err)
	}
	return config, nil
}

// GetByName retrieves a strategy configuration by name
func (r *PostgresConfigRepository) GetByName(ctx context.Context, name string) (*models.StrategyConfig, error) {
	query := `
		SELECT document FROM strategy_configs WHERE name = $1 LIMIT 1
	`

	var doc []byte
	err := r.db.GetPool().QueryRow(ctx, query, name).Scan(&doc)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy config by name: %w", err)
	}

	config := &models.StrategyConfig{}
	if err := json.Unmarshal(doc, config); err != nil {
		return nil, fmt.Errorf(errScanConfig, err)
	}
	return config, nil
}

// List retrieves all saved strategy configurations ordered by name
func (r *PostgresConfigRepository) List(ctx context.Context) ([]*models.StrategyConfig, error) {
	query := `
		SELECT document FROM strategy_configs ORDER BY name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategy configs: %w", err)
	}
	defer rows.Close()

	var configs []*models.StrategyConfig
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf(errScanConfig, err)
		}
		config := &models.StrategyConfig{}
		if err := json.Unmarshal(doc, config); err != nil {
			return nil, fmt.Errorf(errScanConfig, err)
		}
		configs = append(configs, config)
	}

	return configs, rows.Err()
}

// Update replaces an existing strategy configuration
func (r *PostgresConfigRepository) Update(ctx context.Context, config *models.StrategyConfig) error {
	doc, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal strategy config: %w", err)
	}

	query := `
		UPDATE strategy_configs SET
			name = $2, type = $3, fingerprint = $4, document = $5, updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := r.db.GetPool().Exec(ctx, query,
		config.ID, config.Name, string(config.Type), config.Fingerprint(), doc,
	)
	if err != nil {
		return fmt.Errorf("failed to update strategy config: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes a strategy configuration
func (r *PostgresConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM strategy_configs WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete strategy config: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
