package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"palmviz/internal/domain"
	"palmviz/internal/domain/models"
	"palmviz/internal/domain/repositories"
)

// PostgresCredentialsRepository implements the CredentialsRepository interface
type PostgresCredentialsRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCredentialsRepository creates a new credentials repository
func NewCredentialsRepository(config *RepositoryConfig) repositories.CredentialsRepository {
	return &PostgresCredentialsRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Get retrieves the stored credentials for an account
func (r *PostgresCredentialsRepository) Get(ctx context.Context, account string) (*models.Credentials, error) {
	query := fmt.Sprintf(`
		SELECT account, access_token, token_type, refresh_token, last_fetched
		FROM %s
		WHERE account = $1
	`, r.tables.Credentials)

	var creds models.Credentials
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, account).Scan(
		&creds.Account,
		&creds.AccessToken,
		&creds.TokenType,
		&creds.RefreshToken,
		&creds.LastFetched,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("credentials for %s: %w", account, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	return &creds, nil
}

// Upsert creates or replaces the credentials row for an account
func (r *PostgresCredentialsRepository) Upsert(ctx context.Context, creds *models.Credentials) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (account, access_token, token_type, refresh_token, last_fetched, created, updated)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (account) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    token_type = EXCLUDED.token_type,
		    refresh_token = EXCLUDED.refresh_token,
		    last_fetched = EXCLUDED.last_fetched,
		    updated = NOW()
	`, r.tables.Credentials)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		creds.Account,
		creds.AccessToken,
		creds.TokenType,
		creds.RefreshToken,
		creds.LastFetched,
	)
	if err != nil {
		return fmt.Errorf("upsert credentials: %w", err)
	}

	return nil
}
