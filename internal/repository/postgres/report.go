package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"palmviz/internal/domain/models"
	"palmviz/internal/domain/repositories"
)

// PostgresReportRepository implements the ReportRepository interface.
// All queries are read-only; the report path never touches the Wrike API.
type PostgresReportRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewReportRepository creates a new report repository
func NewReportRepository(config *RepositoryConfig) repositories.ReportRepository {
	return &PostgresReportRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// ChildFolders lists the direct children of a root folder, ordered by title.
func (r *PostgresReportRepository) ChildFolders(ctx context.Context, parentID string) ([]models.FolderRef, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.title
		FROM %s f
		JOIN %s fp ON fp.folder_id = f.id
		WHERE fp.parent_id = $1
		ORDER BY f.title
	`, r.tables.Folders, r.tables.FolderParents)

	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}
	defer rows.Close()

	var folders []models.FolderRef
	for rows.Next() {
		var ref models.FolderRef
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, fmt.Errorf("scan child folder: %w", err)
		}
		folders = append(folders, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate child folders: %w", err)
	}

	return folders, nil
}

// CountTasksUnder counts distinct tasks filed in one of the category
// folders and in a folder at or below ancestorID. The descendant set is
// computed over the folder-parent DAG; UNION (not UNION ALL) keeps the
// recursion finite on diamond-shaped parentage.
func (r *PostgresReportRepository) CountTasksUnder(ctx context.Context, categoryIDs []string, ancestorID string, dr models.DateRange) (int, error) {
	args := []interface{}{ancestorID, categoryIDs}
	filter := completedDateClause("t.completed_date", dr, &args)

	query := fmt.Sprintf(`
		WITH RECURSIVE descendants AS (
			SELECT $1::varchar AS folder_id
			UNION
			SELECT fp.folder_id
			FROM %s fp
			JOIN descendants d ON fp.parent_id = d.folder_id
		)
		SELECT COUNT(DISTINCT t.id)
		FROM %s t
		JOIN %s tc ON tc.task_id = t.id AND tc.folder_id = ANY($2)
		JOIN %s tg ON tg.task_id = t.id
		WHERE tg.folder_id IN (SELECT folder_id FROM descendants)%s
	`, r.tables.FolderParents, r.tables.Tasks, r.tables.TaskFolders, r.tables.TaskFolders, filter)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks under folder: %w", err)
	}

	return count, nil
}

// CountProjectsUnder counts distinct folders directly parented by one of
// the category folders and sitting at or below ancestorID.
func (r *PostgresReportRepository) CountProjectsUnder(ctx context.Context, categoryIDs []string, ancestorID string, dr models.DateRange) (int, error) {
	args := []interface{}{ancestorID, categoryIDs}
	filter := completedDateClause("f.completed_date", dr, &args)

	query := fmt.Sprintf(`
		WITH RECURSIVE descendants AS (
			SELECT $1::varchar AS folder_id
			UNION
			SELECT fp.folder_id
			FROM %s fp
			JOIN descendants d ON fp.parent_id = d.folder_id
		)
		SELECT COUNT(DISTINCT f.id)
		FROM %s f
		JOIN %s cat ON cat.folder_id = f.id AND cat.parent_id = ANY($2)
		WHERE f.id IN (SELECT folder_id FROM descendants)%s
	`, r.tables.FolderParents, r.tables.Folders, r.tables.FolderParents, filter)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects under folder: %w", err)
	}

	return count, nil
}

// TaskCountsByAssignee counts distinct tasks in the category folders per
// assignee, labelled by contact display name.
func (r *PostgresReportRepository) TaskCountsByAssignee(ctx context.Context, categoryIDs []string, dr models.DateRange) ([]models.GroupCount, error) {
	args := []interface{}{categoryIDs}
	filter := completedDateClause("t.completed_date", dr, &args)

	query := fmt.Sprintf(`
		SELECT TRIM(c.first_name || ' ' || c.last_name) AS label, COUNT(DISTINCT t.id)
		FROM %s c
		JOIN %s ta ON ta.contact_id = c.id
		JOIN %s t ON t.id = ta.task_id
		JOIN %s tc ON tc.task_id = t.id AND tc.folder_id = ANY($1)
		WHERE TRUE%s
		GROUP BY 1
		ORDER BY 1
	`, r.tables.Contacts, r.tables.TaskAssignees, r.tables.Tasks, r.tables.TaskFolders, filter)

	return r.queryGroupCounts(ctx, query, args)
}

// ProjectCountsByAssignee counts distinct project folders in the category
// folders per owning contact.
func (r *PostgresReportRepository) ProjectCountsByAssignee(ctx context.Context, categoryIDs []string, dr models.DateRange) ([]models.GroupCount, error) {
	args := []interface{}{categoryIDs}
	filter := completedDateClause("f.completed_date", dr, &args)

	query := fmt.Sprintf(`
		SELECT TRIM(c.first_name || ' ' || c.last_name) AS label, COUNT(DISTINCT f.id)
		FROM %s c
		JOIN %s fa ON fa.contact_id = c.id
		JOIN %s f ON f.id = fa.folder_id
		JOIN %s cat ON cat.folder_id = f.id AND cat.parent_id = ANY($1)
		WHERE TRUE%s
		GROUP BY 1
		ORDER BY 1
	`, r.tables.Contacts, r.tables.FolderAssignees, r.tables.Folders, r.tables.FolderParents, filter)

	return r.queryGroupCounts(ctx, query, args)
}

func (r *PostgresReportRepository) queryGroupCounts(ctx context.Context, query string, args []interface{}) ([]models.GroupCount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by assignee: %w", err)
	}
	defer rows.Close()

	var counts []models.GroupCount
	for rows.Next() {
		var gc models.GroupCount
		if err := rows.Scan(&gc.Label, &gc.Count); err != nil {
			return nil, fmt.Errorf("scan assignee count: %w", err)
		}
		counts = append(counts, gc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignee counts: %w", err)
	}

	return counts, nil
}

// completedDateClause appends inclusive completedDate bounds to args and
// returns the matching SQL fragment (empty when no bounds are set).
func completedDateClause(column string, dr models.DateRange, args *[]interface{}) string {
	clause := ""
	if dr.Start != nil {
		*args = append(*args, *dr.Start)
		clause += fmt.Sprintf(" AND %s >= $%d", column, len(*args))
	}
	if dr.End != nil {
		*args = append(*args, *dr.End)
		clause += fmt.Sprintf(" AND %s <= $%d", column, len(*args))
	}
	return clause
}
