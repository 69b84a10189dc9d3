package sync

import (
	"context"
	"log/slog"
)

// Stage is one of the four sequential phases of a sync run.
type Stage string

const (
	StageCustomFields Stage = "customfields"
	StageContacts     Stage = "contacts"
	StageFolders      Stage = "folders"
	StageTasks        Stage = "tasks"
)

// RelationKind names the relation a skipped id belonged to.
type RelationKind string

const (
	RelationParent      RelationKind = "parent"
	RelationFolder      RelationKind = "folder"
	RelationAssignee    RelationKind = "assignee"
	RelationCustomField RelationKind = "customfield"
)

// SkippedRelation records one relation the stage could not resolve: the
// remote data referenced an id with no local row. The rest of the batch
// proceeds; the skip is surfaced here instead of only in the log.
type SkippedRelation struct {
	Kind      RelationKind `json:"kind"`
	OwnerID   string       `json:"owner_id"`
	RelatedID string       `json:"related_id"`
	Reason    string       `json:"reason"`
}

// StageResult is the outcome of one stage. Err is nil on success;
// rows written before a mid-stage failure stay committed.
type StageResult struct {
	Stage   Stage             `json:"stage"`
	Err     error             `json:"-"`
	Records int               `json:"records"`
	Skipped []SkippedRelation `json:"skipped,omitempty"`
}

// Succeeded reports whether the stage completed without aborting.
func (r StageResult) Succeeded() bool {
	return r.Err == nil
}

// RunResult is the outcome of one full sync run.
type RunResult struct {
	RunID  string        `json:"run_id"`
	Stages []StageResult `json:"stages"`
}

// Succeeded reports whether every stage completed.
func (r RunResult) Succeeded() bool {
	for _, s := range r.Stages {
		if !s.Succeeded() {
			return false
		}
	}
	return true
}

// Notifier receives operator notifications about failed stages.
type Notifier interface {
	StageFailed(ctx context.Context, runID string, stage Stage, err error)
}

// LogNotifier is a Notifier that writes to the structured log. Deployments
// that page operators plug in their own implementation.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// StageFailed implements Notifier.
func (n *LogNotifier) StageFailed(ctx context.Context, runID string, stage Stage, err error) {
	n.logger.Error("sync stage failed",
		"run_id", runID,
		"stage", string(stage),
		"error", err,
	)
}
