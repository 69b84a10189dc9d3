package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"palmviz/internal/domain/repositories"
	"palmviz/internal/wrike"
)

// RemoteAPI is the slice of the Wrike client the orchestrator consumes.
type RemoteAPI interface {
	CustomFields(ctx context.Context) ([]wrike.CustomFieldRecord, error)
	Contacts(ctx context.Context) ([]wrike.ContactRecord, error)
	FolderTree(ctx context.Context) ([]wrike.FolderRecord, error)
	Projects(ctx context.Context) ([]wrike.FolderRecord, error)
	Folders(ctx context.Context) ([]wrike.FolderRecord, error)
	Tasks(ctx context.Context, fn func(page []wrike.TaskRecord) error) error
}

// Orchestrator runs the four ingestion stages in a fixed order:
// custom fields, contacts, folders/projects, tasks. Tasks run last
// because their relations need folders and contacts to exist locally.
// A stage failure is reported and does not stop the later stages.
type Orchestrator struct {
	api          RemoteAPI
	customFields repositories.CustomFieldRepository
	contacts     repositories.ContactRepository
	folders      repositories.FolderRepository
	tasks        repositories.TaskRepository
	notifier     Notifier
	logger       *slog.Logger
}

// NewOrchestrator creates a sync orchestrator.
func NewOrchestrator(
	api RemoteAPI,
	customFields repositories.CustomFieldRepository,
	contacts repositories.ContactRepository,
	folders repositories.FolderRepository,
	tasks repositories.TaskRepository,
	notifier Notifier,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		api:          api,
		customFields: customFields,
		contacts:     contacts,
		folders:      folders,
		tasks:        tasks,
		notifier:     notifier,
		logger:       logger,
	}
}

// Run executes one full sync. All four stages always attempt to run;
// the result carries one entry per stage in execution order.
func (o *Orchestrator) Run(ctx context.Context) RunResult {
	result := RunResult{RunID: uuid.NewString()}
	o.logger.Info("sync run started", "run_id", result.RunID)

	stages := []func(context.Context) StageResult{
		o.syncCustomFields,
		o.syncContacts,
		o.syncFolders,
		o.syncTasks,
	}
	for _, stage := range stages {
		res := stage(ctx)
		if res.Err != nil {
			o.notifier.StageFailed(ctx, result.RunID, res.Stage, res.Err)
		} else {
			o.logger.Info("sync stage finished",
				"run_id", result.RunID,
				"stage", string(res.Stage),
				"records", res.Records,
				"skipped", len(res.Skipped),
			)
		}
		result.Stages = append(result.Stages, res)
	}

	o.logger.Info("sync run finished", "run_id", result.RunID, "succeeded", result.Succeeded())
	return result
}

func (o *Orchestrator) syncCustomFields(ctx context.Context) StageResult {
	res := StageResult{Stage: StageCustomFields}

	records, err := o.api.CustomFields(ctx)
	if err != nil {
		res.Err = fmt.Errorf("fetch custom fields: %w", err)
		return res
	}
	for _, rec := range records {
		if err := o.customFields.Upsert(ctx, mapCustomField(rec)); err != nil {
			res.Err = fmt.Errorf("custom field %s: %w", rec.ID, err)
			return res
		}
		res.Records++
	}

	return res
}

func (o *Orchestrator) syncContacts(ctx context.Context) StageResult {
	res := StageResult{Stage: StageContacts}

	records, err := o.api.Contacts(ctx)
	if err != nil {
		res.Err = fmt.Errorf("fetch contacts: %w", err)
		return res
	}
	for _, rec := range records {
		if err := o.contacts.Upsert(ctx, mapContact(rec)); err != nil {
			res.Err = fmt.Errorf("contact %s: %w", rec.ID, err)
			return res
		}
		res.Records++
	}

	return res
}

// syncFolders runs three fetches: the flat account-wide tree first, so
// every folder id exists before anything references it, then the full
// project and folder listings. Parent links are collected during the
// enrichment pass and applied afterwards, so a parent fetched later in
// the same pass is never missing when its child links to it.
func (o *Orchestrator) syncFolders(ctx context.Context) StageResult {
	res := StageResult{Stage: StageFolders}

	tree, err := o.api.FolderTree(ctx)
	if err != nil {
		res.Err = fmt.Errorf("fetch folder tree: %w", err)
		return res
	}
	for _, rec := range tree {
		if err := o.folders.Upsert(ctx, mapFolder(rec, o.logger)); err != nil {
			res.Err = fmt.Errorf("folder %s: %w", rec.ID, err)
			return res
		}
	}

	projects, err := o.api.Projects(ctx)
	if err != nil {
		res.Err = fmt.Errorf("fetch projects: %w", err)
		return res
	}
	folders, err := o.api.Folders(ctx)
	if err != nil {
		res.Err = fmt.Errorf("fetch folders: %w", err)
		return res
	}

	type parentLink struct {
		folderID  string
		parentIDs []string
	}
	var pending []parentLink

	for _, rec := range append(projects, folders...) {
		if err := o.folders.Upsert(ctx, mapFolder(rec, o.logger)); err != nil {
			res.Err = fmt.Errorf("folder %s: %w", rec.ID, err)
			return res
		}
		res.Records++

		for _, cf := range rec.CustomFields {
			if cf.Value == "" {
				continue
			}
			ok, err := o.folders.UpsertCustomFieldValue(ctx, rec.ID, cf.ID, cf.Value)
			if err != nil {
				res.Err = fmt.Errorf("folder %s custom field %s: %w", rec.ID, cf.ID, err)
				return res
			}
			if !ok {
				res.Skipped = append(res.Skipped, o.skip(RelationCustomField, rec.ID, cf.ID, "custom field not found"))
			}
		}

		var ownerIDs []string
		if rec.Project != nil {
			ownerIDs = rec.Project.OwnerIDs
		}
		missing, err := o.folders.ReplaceAssignees(ctx, rec.ID, ownerIDs)
		if err != nil {
			res.Err = fmt.Errorf("folder %s assignees: %w", rec.ID, err)
			return res
		}
		for _, id := range missing {
			res.Skipped = append(res.Skipped, o.skip(RelationAssignee, rec.ID, id, "contact not found"))
		}

		pending = append(pending, parentLink{folderID: rec.ID, parentIDs: rec.ParentIDs})
	}

	for _, link := range pending {
		missing, err := o.folders.ReplaceParents(ctx, link.folderID, link.parentIDs)
		if err != nil {
			res.Err = fmt.Errorf("folder %s parents: %w", link.folderID, err)
			return res
		}
		for _, id := range missing {
			res.Skipped = append(res.Skipped, o.skip(RelationParent, link.folderID, id, "parent folder not found"))
		}
	}

	return res
}

// syncTasks pulls the paginated task listing. A page-level failure
// aborts the remaining pagination; pages already written stay.
func (o *Orchestrator) syncTasks(ctx context.Context) StageResult {
	res := StageResult{Stage: StageTasks}

	err := o.api.Tasks(ctx, func(page []wrike.TaskRecord) error {
		for _, rec := range page {
			if err := o.tasks.Upsert(ctx, mapTask(rec, o.logger)); err != nil {
				return fmt.Errorf("task %s: %w", rec.ID, err)
			}
			res.Records++

			for _, cf := range rec.CustomFields {
				if cf.Value == "" {
					continue
				}
				ok, err := o.tasks.UpsertCustomFieldValue(ctx, rec.ID, cf.ID, cf.Value)
				if err != nil {
					return fmt.Errorf("task %s custom field %s: %w", rec.ID, cf.ID, err)
				}
				if !ok {
					res.Skipped = append(res.Skipped, o.skip(RelationCustomField, rec.ID, cf.ID, "custom field not found"))
				}
			}

			missing, err := o.tasks.ReplaceFolders(ctx, rec.ID, rec.ParentIDs)
			if err != nil {
				return fmt.Errorf("task %s folders: %w", rec.ID, err)
			}
			for _, id := range missing {
				res.Skipped = append(res.Skipped, o.skip(RelationFolder, rec.ID, id, "folder not found"))
			}

			missing, err = o.tasks.ReplaceAssignees(ctx, rec.ID, rec.ResponsibleIDs)
			if err != nil {
				return fmt.Errorf("task %s assignees: %w", rec.ID, err)
			}
			for _, id := range missing {
				res.Skipped = append(res.Skipped, o.skip(RelationAssignee, rec.ID, id, "contact not found"))
			}
		}
		return nil
	})
	if err != nil {
		res.Err = err
	}

	return res
}

func (o *Orchestrator) skip(kind RelationKind, ownerID, relatedID, reason string) SkippedRelation {
	o.logger.Warn("relation skipped",
		"kind", string(kind),
		"owner_id", ownerID,
		"related_id", relatedID,
		"reason", reason,
	)
	return SkippedRelation{Kind: kind, OwnerID: ownerID, RelatedID: relatedID, Reason: reason}
}
