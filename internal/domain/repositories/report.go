package repositories

import (
	"context"

	"palmviz/internal/domain/models"
)

// ReportRepository runs the read-only aggregate queries behind the
// dashboard charts. "Under" means the group folder itself or any of its
// descendants through the folder-parent DAG; "in a category" means
// directly parented by one of the category's folders (the category
// folder or its archive twin).
type ReportRepository interface {
	// ChildFolders lists the direct children of a root folder, ordered
	// by title. Used to enumerate countries and regions.
	ChildFolders(ctx context.Context, parentID string) ([]models.FolderRef, error)

	// CountTasksUnder counts distinct tasks that are filed in one of
	// the category folders and in a folder under ancestorID, filtered
	// by task completedDate.
	CountTasksUnder(ctx context.Context, categoryIDs []string, ancestorID string, dr models.DateRange) (int, error)

	// CountProjectsUnder counts distinct folders that are in one of the
	// category folders and under ancestorID, filtered by the folder's
	// own completedDate.
	CountProjectsUnder(ctx context.Context, categoryIDs []string, ancestorID string, dr models.DateRange) (int, error)

	// TaskCountsByAssignee counts distinct tasks in the category
	// folders per assignee, labelled by contact display name. Rows with
	// zero counts are not returned.
	TaskCountsByAssignee(ctx context.Context, categoryIDs []string, dr models.DateRange) ([]models.GroupCount, error)

	// ProjectCountsByAssignee counts distinct project folders in the
	// category folders per assignee (project owner).
	ProjectCountsByAssignee(ctx context.Context, categoryIDs []string, dr models.DateRange) ([]models.GroupCount, error)
}
