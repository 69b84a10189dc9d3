package repositories

import (
	"context"

	"palmviz/internal/domain/models"
)

// FolderRepository persists Wrike folders/projects and their relations.
//
// The Replace* methods implement the sync's replace semantics: the
// owner's existing relation rows are cleared and rebuilt from the given
// id list in one transaction, so stale memberships never survive a sync
// pass. IDs that do not resolve to a local row are skipped and returned
// to the caller instead of failing the batch.
type FolderRepository interface {
	Upsert(ctx context.Context, folder *models.Folder) error

	// ReplaceParents rebuilds the folder's parent set. Returns the
	// parent ids that were skipped because no such folder exists.
	ReplaceParents(ctx context.Context, folderID string, parentIDs []string) (missing []string, err error)

	// ReplaceAssignees rebuilds the project's owner set. Returns the
	// contact ids that were skipped because no such contact exists.
	ReplaceAssignees(ctx context.Context, folderID string, contactIDs []string) (missing []string, err error)

	// UpsertCustomFieldValue sets the value of one custom field on a
	// folder, overwriting any previous value for the (folder, field)
	// pair. Returns false if the custom field id is unknown locally.
	UpsertCustomFieldValue(ctx context.Context, folderID, customFieldID, value string) (bool, error)
}
