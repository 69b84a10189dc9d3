package repositories

import (
	"context"

	"palmviz/internal/domain/models"
)

// CredentialsRepository persists the OAuth2 token set for the designated
// Wrike API account.
type CredentialsRepository interface {
	// Get returns the stored credentials for the account, or an error
	// wrapping domain.ErrNotFound when the account has never been
	// authorized.
	Get(ctx context.Context, account string) (*models.Credentials, error)

	// Upsert creates or replaces the credentials row for the account.
	Upsert(ctx context.Context, creds *models.Credentials) error
}
