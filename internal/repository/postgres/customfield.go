package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"palmviz/internal/domain/models"
	"palmviz/internal/domain/repositories"
)

// PostgresCustomFieldRepository implements the CustomFieldRepository interface
type PostgresCustomFieldRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCustomFieldRepository creates a new custom field repository
func NewCustomFieldRepository(config *RepositoryConfig) repositories.CustomFieldRepository {
	return &PostgresCustomFieldRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert creates or updates a custom field by its Wrike ID.
// The deleted flag is only written on insert; updates leave it alone.
func (r *PostgresCustomFieldRepository) Upsert(ctx context.Context, field *models.CustomField) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, type, deleted, created, updated)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, type = EXCLUDED.type, updated = NOW()
	`, r.tables.CustomFields)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		field.ID,
		field.Title,
		field.Type,
		field.Deleted,
	)
	if err != nil {
		return fmt.Errorf("upsert custom field: %w", err)
	}

	return nil
}
