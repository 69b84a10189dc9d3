package repositories

import (
	"context"

	"palmviz/internal/domain/models"
)

// ContactRepository persists Wrike contacts.
type ContactRepository interface {
	// Upsert creates or updates a contact by its Wrike ID.
	Upsert(ctx context.Context, contact *models.Contact) error
}
