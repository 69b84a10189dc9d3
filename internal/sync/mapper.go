package sync

import (
	"log/slog"
	"time"

	"palmviz/internal/domain/models"
	"palmviz/internal/wrike"
)

const (
	// textLimit caps task title and briefDescription to fit the
	// 254-char columns; longer text is cut and marked with an ellipsis.
	// Deliberately lossy, kept for compatibility with the stored data.
	textLimit = 250
	ellipsis  = "..."

	dateTimeLayout = "2006-01-02T15:04:05"
	dateLayout     = "2006-01-02"
)

// truncateText cuts s to textLimit characters plus the ellipsis marker.
func truncateText(s string) string {
	runes := []rune(s)
	if len(runes) <= textLimit {
		return s
	}
	return string(runes[:textLimit]) + ellipsis
}

// parseDateTime parses the first 19 characters of a Wrike timestamp as
// UTC. A parse failure is logged and reported as absent; the record's
// other fields still go through.
func parseDateTime(field, value string, logger *slog.Logger) *time.Time {
	if value == "" {
		return nil
	}
	s := value
	if len(s) > 19 {
		s = s[:19]
	}
	t, err := time.ParseInLocation(dateTimeLayout, s, time.UTC)
	if err != nil {
		logger.Warn("unparseable date, field omitted", "field", field, "value", value)
		return nil
	}
	return &t
}

// parseDate parses the first 10 characters of a Wrike date as UTC.
func parseDate(field, value string, logger *slog.Logger) *time.Time {
	if value == "" {
		return nil
	}
	s := value
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		logger.Warn("unparseable date, field omitted", "field", field, "value", value)
		return nil
	}
	return &t
}

func mapCustomField(rec wrike.CustomFieldRecord) *models.CustomField {
	return &models.CustomField{
		ID:    rec.ID,
		Title: rec.Title,
		Type:  rec.Type,
	}
}

func mapContact(rec wrike.ContactRecord) *models.Contact {
	return &models.Contact{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Type:      rec.Type,
		Deleted:   rec.Deleted,
	}
}

// mapFolder converts a folder record to the local row. Status and dates
// come from the nested project object; a folder without one is a plain
// folder and leaves them empty.
func mapFolder(rec wrike.FolderRecord, logger *slog.Logger) *models.Folder {
	f := &models.Folder{
		ID:        rec.ID,
		Title:     rec.Title,
		Scope:     rec.Scope,
		Permalink: rec.Permalink,
	}
	if p := rec.Project; p != nil {
		f.Status = p.Status
		f.CreatedDate = parseDateTime("project.createdDate", p.CreatedDate, logger)
		f.StartDate = parseDate("project.startDate", p.StartDate, logger)
		f.EndDate = parseDate("project.endDate", p.EndDate, logger)
		f.CompletedDate = parseDateTime("project.completedDate", p.CompletedDate, logger)
	}
	return f
}

func mapTask(rec wrike.TaskRecord, logger *slog.Logger) *models.Task {
	return &models.Task{
		ID:               rec.ID,
		Title:            truncateText(rec.Title),
		Status:           rec.Status,
		BriefDescription: truncateText(rec.BriefDescription),
		Importance:       rec.Importance,
		Permalink:        rec.Permalink,
		Scope:            rec.Scope,
		CreatedDate:      parseDateTime("createdDate", rec.CreatedDate, logger),
		UpdatedDate:      parseDateTime("updatedDate", rec.UpdatedDate, logger),
		CompletedDate:    parseDateTime("completedDate", rec.CompletedDate, logger),
	}
}
