package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"palmviz/internal/domain/models"
	"palmviz/internal/report"
)

type fakeBuilder struct {
	gotGroup report.GroupBy
	gotRange models.DateRange
	out      *models.Report
	err      error
}

func (b *fakeBuilder) BuildReport(ctx context.Context, groupBy report.GroupBy, dr models.DateRange) (*models.Report, error) {
	b.gotGroup = groupBy
	b.gotRange = dr
	return b.out, b.err
}

func newReportServer(builder *fakeBuilder) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewReportHandler(builder, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/{group}", h.GetReport)
	mux.HandleFunc("GET /health", h.HealthCheck)
	return httptest.NewServer(mux)
}

func TestGetReport(t *testing.T) {
	builder := &fakeBuilder{
		out: &models.Report{
			Labels: []string{"Chad", "Kenya"},
			Series: []models.Series{
				{Name: "General Tech Support", Data: []int{0, 3}},
			},
		},
	}
	server := newReportServer(builder)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/reports/country?start=2023-01-01&end=2023-12-31")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if builder.gotGroup != report.GroupByCountry {
		t.Errorf("group = %q, want country", builder.gotGroup)
	}
	if builder.gotRange.Start == nil || !builder.gotRange.Start.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("range start = %v", builder.gotRange.Start)
	}
	if builder.gotRange.End == nil || !builder.gotRange.End.Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("range end = %v", builder.gotRange.End)
	}

	var body struct {
		Categories []string        `json:"categories"`
		Series     []models.Series `json:"series"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Categories) != 2 || body.Categories[0] != "Chad" {
		t.Errorf("categories = %v", body.Categories)
	}
	if len(body.Series) != 1 || body.Series[0].Name != "General Tech Support" {
		t.Errorf("series = %+v", body.Series)
	}
}

func TestGetReportNoDates(t *testing.T) {
	builder := &fakeBuilder{out: &models.Report{}}
	server := newReportServer(builder)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/reports/person")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if builder.gotRange.Start != nil || builder.gotRange.End != nil {
		t.Errorf("range should be open: %+v", builder.gotRange)
	}
}

func TestGetReportBadRequests(t *testing.T) {
	builder := &fakeBuilder{out: &models.Report{}}
	server := newReportServer(builder)
	defer server.Close()

	tests := []struct {
		name string
		path string
	}{
		{"unknown grouping", "/api/reports/continent"},
		{"bad start date", "/api/reports/country?start=January"},
		{"bad end date", "/api/reports/country?end=2023-13-99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(server.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestGetReportBuilderError(t *testing.T) {
	builder := &fakeBuilder{err: errors.New("db gone")}
	server := newReportServer(builder)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/reports/region")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestHealthCheck(t *testing.T) {
	server := newReportServer(&fakeBuilder{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
