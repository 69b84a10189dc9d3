package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"palmviz/internal/domain/models"
	"palmviz/internal/httputil"
	"palmviz/internal/report"
)

// ReportBuilder is the slice of the aggregator the handler consumes.
type ReportBuilder interface {
	BuildReport(ctx context.Context, groupBy report.GroupBy, dr models.DateRange) (*models.Report, error)
}

// ReportHandler handles report HTTP requests
type ReportHandler struct {
	builder ReportBuilder
	logger  *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(builder ReportBuilder, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		builder: builder,
		logger:  logger,
	}
}

type reportRequest struct {
	Group string
	Start string
	End   string
}

func (r reportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Group, validation.Required, validation.In("country", "region", "person")),
		validation.Field(&r.Start, validation.Date("2006-01-02")),
		validation.Field(&r.End, validation.Date("2006-01-02")),
	)
}

// dateRange converts the validated request dates to an inclusive range.
func (r reportRequest) dateRange() models.DateRange {
	var dr models.DateRange
	if r.Start != "" {
		t, _ := time.ParseInLocation("2006-01-02", r.Start, time.UTC)
		dr.Start = &t
	}
	if r.End != "" {
		t, _ := time.ParseInLocation("2006-01-02", r.End, time.UTC)
		dr.End = &t
	}
	return dr
}

// GetReport returns chart-ready labels and series for one grouping
// GET /api/reports/{group}?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	req := reportRequest{
		Group: r.PathValue("group"),
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	groupBy, err := report.ParseGroupBy(req.Group)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	out, err := h.builder.BuildReport(r.Context(), groupBy, req.dateRange())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, out)
}

// HealthCheck reports liveness
// GET /health
func (h *ReportHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
