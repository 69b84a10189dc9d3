package repositories

import (
	"context"

	"palmviz/internal/domain/models"
)

// TaskRepository persists Wrike tasks and their relations. Replace
// semantics match FolderRepository: clear and rebuild in one
// transaction, skipping unresolvable ids.
type TaskRepository interface {
	Upsert(ctx context.Context, task *models.Task) error

	// ReplaceFolders rebuilds the task's folder memberships. Returns
	// the folder ids skipped because no such folder exists.
	ReplaceFolders(ctx context.Context, taskID string, folderIDs []string) (missing []string, err error)

	// ReplaceAssignees rebuilds the task's assignee set. Returns the
	// contact ids skipped because no such contact exists.
	ReplaceAssignees(ctx context.Context, taskID string, contactIDs []string) (missing []string, err error)

	// UpsertCustomFieldValue sets the value of one custom field on a
	// task, overwriting any previous value for the (task, field) pair.
	// Returns false if the custom field id is unknown locally.
	UpsertCustomFieldValue(ctx context.Context, taskID, customFieldID, value string) (bool, error)
}
