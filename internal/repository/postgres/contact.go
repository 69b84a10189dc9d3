package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"palmviz/internal/domain/models"
	"palmviz/internal/domain/repositories"
)

// PostgresContactRepository implements the ContactRepository interface
type PostgresContactRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewContactRepository creates a new contact repository
func NewContactRepository(config *RepositoryConfig) repositories.ContactRepository {
	return &PostgresContactRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert creates or updates a contact by its Wrike ID.
func (r *PostgresContactRepository) Upsert(ctx context.Context, contact *models.Contact) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, first_name, last_name, type, deleted, created, updated)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    type = EXCLUDED.type,
		    updated = NOW()
	`, r.tables.Contacts)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		contact.ID,
		contact.FirstName,
		contact.LastName,
		contact.Type,
		contact.Deleted,
	)
	if err != nil {
		return fmt.Errorf("upsert contact: %w", err)
	}

	return nil
}
