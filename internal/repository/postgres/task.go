package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"palmviz/internal/domain/models"
	"palmviz/internal/domain/repositories"
)

// PostgresTaskRepository implements the TaskRepository interface
type PostgresTaskRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	txm    repositories.TransactionManager
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(config *RepositoryConfig) repositories.TaskRepository {
	return &PostgresTaskRepository{
		pool:   config.Pool,
		tables: config.Tables,
		txm:    NewTransactionManager(config.Pool),
	}
}

// Upsert creates or updates a task by its Wrike ID.
func (r *PostgresTaskRepository) Upsert(ctx context.Context, task *models.Task) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, status, brief_description, importance,
			permalink, scope, created_date, updated_date, completed_date, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    status = EXCLUDED.status,
		    brief_description = EXCLUDED.brief_description,
		    importance = EXCLUDED.importance,
		    permalink = EXCLUDED.permalink,
		    scope = EXCLUDED.scope,
		    created_date = EXCLUDED.created_date,
		    updated_date = EXCLUDED.updated_date,
		    completed_date = EXCLUDED.completed_date,
		    updated = NOW()
	`, r.tables.Tasks)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Status,
		task.BriefDescription,
		task.Importance,
		task.Permalink,
		task.Scope,
		task.CreatedDate,
		task.UpdatedDate,
		task.CompletedDate,
	)
	if err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}

	return nil
}

// ReplaceFolders clears and rebuilds the task's folder memberships.
func (r *PostgresTaskRepository) ReplaceFolders(ctx context.Context, taskID string, folderIDs []string) ([]string, error) {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE task_id = $1`, r.tables.TaskFolders)
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (task_id, folder_id)
		SELECT $1, $2
		WHERE EXISTS (SELECT 1 FROM %s WHERE id = $2)
		ON CONFLICT DO NOTHING
	`, r.tables.TaskFolders, r.tables.Folders)

	var missing []string
	err := r.txm.ExecTx(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, r.pool)
		if _, err := executor.Exec(ctx, deleteQuery, taskID); err != nil {
			return fmt.Errorf("clear task folders: %w", err)
		}
		for _, folderID := range folderIDs {
			tag, err := executor.Exec(ctx, insertQuery, taskID, folderID)
			if err != nil {
				return fmt.Errorf("link task folder: %w", err)
			}
			if tag.RowsAffected() == 0 {
				missing = append(missing, folderID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return missing, nil
}

// ReplaceAssignees clears and rebuilds the task's assignee set.
func (r *PostgresTaskRepository) ReplaceAssignees(ctx context.Context, taskID string, contactIDs []string) ([]string, error) {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE task_id = $1`, r.tables.TaskAssignees)
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (task_id, contact_id)
		SELECT $1, $2
		WHERE EXISTS (SELECT 1 FROM %s WHERE id = $2)
		ON CONFLICT DO NOTHING
	`, r.tables.TaskAssignees, r.tables.Contacts)

	var missing []string
	err := r.txm.ExecTx(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, r.pool)
		if _, err := executor.Exec(ctx, deleteQuery, taskID); err != nil {
			return fmt.Errorf("clear task assignees: %w", err)
		}
		for _, contactID := range contactIDs {
			tag, err := executor.Exec(ctx, insertQuery, taskID, contactID)
			if err != nil {
				return fmt.Errorf("link task assignee: %w", err)
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
// task. Returns false when the custom field id is unknown locally.
func (r *PostgresTaskRepository) UpsertCustomFieldValue(ctx context.Context, taskID, customFieldID, value string) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (task_id, customfield_id, value, created, updated)
		SELECT $1, $2, $3, NOW(), NOW()
		WHERE EXISTS (SELECT 1 FROM %s WHERE id = $2)
		ON CONFLICT (task_id, customfield_id) DO UPDATE
		SET value = EXCLUDED.value, updated = NOW()
	`, r.tables.CustomFieldTasks, r.tables.CustomFields)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, taskID, customFieldID, value)
	if err != nil {
		return false, fmt.Errorf("upsert task custom field value: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
