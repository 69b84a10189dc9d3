package repositories

import (
	"context"

	"palmviz/internal/domain/models"
)

// CustomFieldRepository persists Wrike custom field definitions.
type CustomFieldRepository interface {
	// Upsert creates or updates a custom field by its Wrike ID.
	// The deleted flag is never overwritten on update; no sync path
	// flips it today.
	Upsert(ctx context.Context, field *models.CustomField) error
}
