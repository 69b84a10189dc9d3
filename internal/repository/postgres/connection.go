package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"palmviz/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	CustomFields       string
	Contacts           string
	Folders            string
	Tasks              string
	FolderParents      string
	FolderAssignees    string
	TaskFolders        string
	TaskAssignees      string
	CustomFieldFolders string
	CustomFieldTasks   string
	Credentials        string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		CustomFields:       prefix + "customfields",
		Contacts:           prefix + "contacts",
		Folders:            prefix + "folders",
		Tasks:              prefix + "tasks",
		FolderParents:      prefix + "folder_parents",
		FolderAssignees:    prefix + "folder_assignees",
		TaskFolders:        prefix + "task_folders",
		TaskAssignees:      prefix + "task_assignees",
		CustomFieldFolders: prefix + "customfield_folders",
		CustomFieldTasks:   prefix + "customfield_tasks",
		Credentials:        prefix + "credentials",
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Note on dynamic table names: the fmt.Sprintf interpolation of table
// prefixes (dev_, test_, prod_) happens before the SQL is sent to the
// database, so each environment gets its own prepared statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
