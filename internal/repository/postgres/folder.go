package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"palmviz/internal/domain/models"
	"palmviz/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	txm    repositories.TransactionManager
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		txm:    NewTransactionManager(config.Pool),
	}
}

// Upsert creates or updates a folder by its Wrike ID.
func (r *PostgresFolderRepository) Upsert(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, scope, permalink, status,
			created_date, start_date, end_date, completed_date, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    scope = EXCLUDED.scope,
		    permalink = EXCLUDED.permalink,
		    status = EXCLUDED.status,
		    created_date = EXCLUDED.created_date,
		    start_date = EXCLUDED.start_date,
		    end_date = EXCLUDED.end_date,
		    completed_date = EXCLUDED.completed_date,
		    updated = NOW()
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.Title,
		folder.Scope,
		folder.Permalink,
		folder.Status,
		folder.CreatedDate,
		folder.StartDate,
		folder.EndDate,
		folder.CompletedDate,
	)
	if err != nil {
		return fmt.Errorf("upsert folder: %w", err)
	}

	return nil
}

// ReplaceParents clears and rebuilds the folder's parent set in one
// transaction. Parent ids with no local folder row are skipped and
// returned.
func (r *PostgresFolderRepository) ReplaceParents(ctx context.Context, folderID string, parentIDs []string) ([]string, error) {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE folder_id = $1`, r.tables.FolderParents)
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (folder_id, parent_id)
		SELECT $1, $2
		WHERE EXISTS (SELECT 1 FROM %s WHERE id = $2)
		ON CONFLICT DO NOTHING
	`, r.tables.FolderParents, r.tables.Folders)

	var missing []string
	err := r.txm.ExecTx(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, r.pool)
		if _, err := executor.Exec(ctx, deleteQuery, folderID); err != nil {
			return fmt.Errorf("clear folder parents: %w", err)
		}
		for _, parentID := range parentIDs {
			tag, err := executor.Exec(ctx, insertQuery, folderID, parentID)
			if err != nil {
				return fmt.Errorf("link folder parent: %w", err)
			}
			if tag.RowsAffected() == 0 {
				missing = append(missing, parentID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return missing, nil
}

// ReplaceAssignees clears and rebuilds the project's owner set.
func (r *PostgresFolderRepository) ReplaceAssignees(ctx context.Context, folderID string, contactIDs []string) ([]string, error) {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE folder_id = $1`, r.tables.FolderAssignees)
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (folder_id, contact_id)
		SELECT $1, $2
		WHERE EXISTS (SELECT 1 FROM %s WHERE id = $2)
		ON CONFLICT DO NOTHING
	`, r.tables.FolderAssignees, r.tables.Contacts)

	var missing []string
	err := r.txm.ExecTx(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, r.pool)
		if _, err := executor.Exec(ctx, deleteQuery, folderID); err != nil {
			return fmt.Errorf("clear folder assignees: %w", err)
		}
		for _, contactID := range contactIDs {
			tag, err := executor.Exec(ctx, insertQuery, folderID, contactID)
			if err != nil {
				return fmt.Errorf("link folder assignee: %w", err)
			}
			if tag.RowsAffected() == 0 {
				missing = append(missing, contactID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return missing, nil
}

// UpsertCustomFieldValue overwrites the value of one custom field on a
// folder. Returns false when the custom field id is unknown locally.
func (r *PostgresFolderRepository) UpsertCustomFieldValue(ctx context.Context, folderID, customFieldID, value string) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, customfield_id, value, created, updated)
		SELECT $1, $2, $3, NOW(), NOW()
		WHERE EXISTS (SELECT 1 FROM %s WHERE id = $2)
		ON CONFLICT (folder_id, customfield_id) DO UPDATE
		SET value = EXCLUDED.value, updated = NOW()
	`, r.tables.CustomFieldFolders, r.tables.CustomFields)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, folderID, customFieldID, value)
	if err != nil {
		return false, fmt.Errorf("upsert folder custom field value: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
