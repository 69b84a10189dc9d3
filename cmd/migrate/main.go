package main

import (
	"context"
	"flag"
	"log"

	"palmviz/internal/config"
	"palmviz/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	drop := flag.Bool("drop", false, "drop all tables before creating them")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	tables := postgres.NewTableNames(cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	if *drop {
		log.Printf("⚠️  Dropping all tables (prefix: %s)...", cfg.TablePrefix)
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Printf("📋 Creating schema (prefix: %s)...", cfg.TablePrefix)
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	log.Println("🎉 Schema ready!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Entity tables first; relation tables reference them.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.CustomFields + ` (
			id VARCHAR(32) PRIMARY KEY,
			title TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Contacts + ` (
			id VARCHAR(32) PRIMARY KEY,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id VARCHAR(32) PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			scope TEXT NOT NULL DEFAULT '',
			permalink TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			created_date TIMESTAMPTZ,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			completed_date TIMESTAMPTZ,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Tasks + ` (
			id VARCHAR(32) PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			brief_description TEXT NOT NULL DEFAULT '',
			importance TEXT NOT NULL DEFAULT '',
			permalink TEXT NOT NULL DEFAULT '',
			scope TEXT NOT NULL DEFAULT '',
			created_date TIMESTAMPTZ,
			updated_date TIMESTAMPTZ,
			completed_date TIMESTAMPTZ,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.FolderParents + ` (
			folder_id VARCHAR(32) NOT NULL REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			parent_id VARCHAR(32) NOT NULL REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			PRIMARY KEY (folder_id, parent_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.FolderAssignees + ` (
			folder_id VARCHAR(32) NOT NULL REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			contact_id VARCHAR(32) NOT NULL REFERENCES ` + tables.Contacts + `(id) ON DELETE CASCADE,
			PRIMARY KEY (folder_id, contact_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.TaskFolders + ` (
			task_id VARCHAR(32) NOT NULL REFERENCES ` + tables.Tasks + `(id) ON DELETE CASCADE,
			folder_id VARCHAR(32) NOT NULL REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			PRIMARY KEY (task_id, folder_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.TaskAssignees + ` (
			task_id VARCHAR(32) NOT NULL REFERENCES ` + tables.Tasks + `(id) ON DELETE CASCADE,
			contact_id VARCHAR(32) NOT NULL REFERENCES ` + tables.Contacts + `(id) ON DELETE CASCADE,
			PRIMARY KEY (task_id, contact_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.CustomFieldFolders + ` (
			folder_id VARCHAR(32) NOT NULL REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			customfield_id VARCHAR(32) NOT NULL REFERENCES ` + tables.CustomFields + `(id) ON DELETE CASCADE,
			value TEXT NOT NULL DEFAULT '',
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (folder_id, customfield_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.CustomFieldTasks + ` (
			task_id VARCHAR(32) NOT NULL REFERENCES ` + tables.Tasks + `(id) ON DELETE CASCADE,
			customfield_id VARCHAR(32) NOT NULL REFERENCES ` + tables.CustomFields + `(id) ON DELETE CASCADE,
			value TEXT NOT NULL DEFAULT '',
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (task_id, customfield_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Credentials + ` (
			account VARCHAR(64) PRIMARY KEY,
			access_token TEXT NOT NULL,
			token_type TEXT NOT NULL DEFAULT 'bearer',
			refresh_token TEXT NOT NULL,
			last_fetched TIMESTAMPTZ NOT NULL,
			created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folder_parents_parent ON ` + tables.FolderParents + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `task_folders_folder ON ` + tables.TaskFolders + `(folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `task_assignees_contact ON ` + tables.TaskAssignees + `(contact_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folder_assignees_contact ON ` + tables.FolderAssignees + `(contact_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `tasks_completed_date ON ` + tables.Tasks + `(completed_date)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_completed_date ON ` + tables.Folders + `(completed_date)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.CustomFieldTasks,
		tables.CustomFieldFolders,
		tables.TaskAssignees,
		tables.TaskFolders,
		tables.FolderAssignees,
		tables.FolderParents,
		tables.Tasks,
		tables.Folders,
		tables.Contacts,
		tables.CustomFields,
		tables.Credentials,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}
