package api

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/feblcsack/partyRock/internal/adapters/export/xlsx"
	"github.com/feblcsack/partyRock/internal/domain/report"
	"github.com/feblcsack/partyRock/pkg/logger"
)

// Report formats accepted by the format query parameter.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ReportDependencies defines the report builders.
type ReportDependencies interface {
	FullReport(ctx context.Context) (report.Report, error)
	SchoolReport(ctx context.Context, school string) (report.Report, error)
}

// ReportsHandler serves reports as JSON or as xlsx downloads.
type ReportsHandler struct {
	deps   ReportDependencies
	logger logger.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies, l logger.Logger) *ReportsHandler {
	return &ReportsHandler{deps: deps, logger: l}
}

// HandleFull handles GET /reports/full?format= requests.
func (h *ReportsHandler) HandleFull(w http.ResponseWriter, r *http.Request) {
	const op = "api.full_report"
	h.serve(w, r, op, func(ctx context.Context) (report.Report, error) {
		return h.deps.FullReport(ctx)
	})
}

// HandleSchool handles GET /reports/schools/{school}?format= requests.
func (h *ReportsHandler) HandleSchool(w http.ResponseWriter, r *http.Request) {
	const op = "api.school_report"
	school := r.PathValue("school")
	h.serve(w, r, op, func(ctx context.Context) (report.Report, error) {
		return h.deps.SchoolReport(ctx, school)
	})
}

func (h *ReportsHandler) serve(w http.ResponseWriter, r *http.Request, op string, build func(context.Context) (report.Report, error)) {
	format := r.URL.Query().Get("format")
	switch format {
	case "", FormatJSON, FormatXLSX:
	default:
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %q", op, ErrFormat, format))
		return
	}

	rep, err := build(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	if format != FormatXLSX {
		writeJSON(w, http.StatusOK, rep)
		return
	}

	// Render fully before writing headers so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := xlsx.Write(r.Context(), &buf, rep); err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": xlsx.Filename(rep)}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
