package sync

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"palmviz/internal/wrike"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short text unchanged",
			input: "hello",
			want:  "hello",
		},
		{
			name:  "empty text unchanged",
			input: "",
			want:  "",
		},
		{
			name:  "exactly at limit unchanged",
			input: strings.Repeat("a", 250),
			want:  strings.Repeat("a", 250),
		},
		{
			name:  "one over limit gets ellipsis",
			input: strings.Repeat("a", 251),
			want:  strings.Repeat("a", 250) + "...",
		},
		{
			name:  "far over limit gets ellipsis",
			input: strings.Repeat("x", 300),
			want:  strings.Repeat("x", 250) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateText(tt.input)
			if got != tt.want {
				t.Errorf("truncateText() len=%d, want len=%d", len(got), len(tt.want))
			}
		})
	}
}

func TestTruncateTextMultibyte(t *testing.T) {
	// The limit counts characters, not bytes.
	input := strings.Repeat("é", 251)
	got := truncateText(input)
	want := strings.Repeat("é", 250) + "..."
	if got != want {
		t.Errorf("truncateText() = %d runes, want %d", len([]rune(got)), len([]rune(want)))
	}
}

func TestParseDateTime(t *testing.T) {
	logger := discardLogger()

	tests := []struct {
		name  string
		value string
		want  *time.Time
	}{
		{
			name:  "plain timestamp",
			value: "2023-05-17T09:30:00",
			want:  timePtr(time.Date(2023, 5, 17, 9, 30, 0, 0, time.UTC)),
		},
		{
			name:  "timestamp with suffix truncated",
			value: "2023-05-17T09:30:00Z",
			want:  timePtr(time.Date(2023, 5, 17, 9, 30, 0, 0, time.UTC)),
		},
		{
			name:  "empty value omitted",
			value: "",
			want:  nil,
		},
		{
			name:  "garbage omitted",
			value: "not-a-date",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDateTime("field", tt.value, logger)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("parseDateTime(%q) = %v, want %v", tt.value, got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("parseDateTime(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	logger := discardLogger()

	got := parseDate("startDate", "2024-02-29", logger)
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("parseDate() = %v, want %v", got, want)
	}

	if parseDate("startDate", "2024-13-99", logger) != nil {
		t.Error("parseDate() should omit an invalid date")
	}
	if parseDate("startDate", "", logger) != nil {
		t.Error("parseDate() should omit an empty date")
	}
}

func TestMapFolder(t *testing.T) {
	logger := discardLogger()

	t.Run("plain folder has no project fields", func(t *testing.T) {
		f := mapFolder(wrike.FolderRecord{
			ID:    "IEFOLDER1",
			Title: "Kenya",
			Scope: "WsFolder",
		}, logger)
		if f.ID != "IEFOLDER1" || f.Title != "Kenya" {
			t.Errorf("unexpected folder: %+v", f)
		}
		if f.Status != "" || f.CreatedDate != nil || f.CompletedDate != nil {
			t.Errorf("plain folder should not carry project fields: %+v", f)
		}
	})

	t.Run("project folder maps status and dates", func(t *testing.T) {
		f := mapFolder(wrike.FolderRecord{
			ID:    "IEPROJ1",
			Title: "Water Pump Repair",
			Project: &wrike.ProjectInfo{
				Status:        "Completed",
				CreatedDate:   "2023-01-10T08:00:00Z",
				StartDate:     "2023-01-15",
				EndDate:       "2023-03-01",
				CompletedDate: "2023-02-20T16:45:00Z",
			},
		}, logger)
		if f.Status != "Completed" {
			t.Errorf("Status = %q, want Completed", f.Status)
		}
		if f.StartDate == nil || !f.StartDate.Equal(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("StartDate = %v", f.StartDate)
		}
		if f.CompletedDate == nil || !f.CompletedDate.Equal(time.Date(2023, 2, 20, 16, 45, 0, 0, time.UTC)) {
			t.Errorf("CompletedDate = %v", f.CompletedDate)
		}
	})

	t.Run("bad project date omitted, rest kept", func(t *testing.T) {
		f := mapFolder(wrike.FolderRecord{
			ID: "IEPROJ2",
			Project: &wrike.ProjectInfo{
				Status:      "Green",
				CreatedDate: "garbage",
				StartDate:   "2023-01-15",
			},
		}, logger)
		if f.CreatedDate != nil {
			t.Errorf("CreatedDate should be omitted, got %v", f.CreatedDate)
		}
		if f.Status != "Green" || f.StartDate == nil {
			t.Errorf("other fields should survive a bad date: %+v", f)
		}
	})
}

func TestMapTask(t *testing.T) {
	logger := discardLogger()

	long := strings.Repeat("z", 300)
	task := mapTask(wrike.TaskRecord{
		ID:               "IETASK1",
		Title:            long,
		BriefDescription: long,
		Status:           "Active",
		CompletedDate:    "2023-06-01T12:00:00Z",
	}, logger)

	wantText := strings.Repeat("z", 250) + "..."
	if task.Title != wantText {
		t.Errorf("Title not truncated: len=%d", len(task.Title))
	}
	if task.BriefDescription != wantText {
		t.Errorf("BriefDescription not truncated: len=%d", len(task.BriefDescription))
	}
	if task.CompletedDate == nil || !task.CompletedDate.Equal(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("CompletedDate = %v", task.CompletedDate)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
