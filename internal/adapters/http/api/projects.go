package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/feblcsack/partyRock/internal/domain/model"
	"github.com/feblcsack/partyRock/internal/domain/ranking"
	"github.com/feblcsack/partyRock/pkg/logger"
)

const maxBodyBytes = 1 << 20

// ProjectDependencies defines the interface for project operations.
type ProjectDependencies interface {
	Projects(ctx context.Context, q ranking.Query) ([]Entry, error)
	AddProject(ctx context.Context, np model.NewProject) (model.Project, error)
	SaveScores(ctx context.Context, viewerID, projectID string, sc model.Scores) (model.Project, error)
	DeleteProject(ctx context.Context, viewerID, projectID string) error
}

// ProjectsHandler handles project listing and owner writes.
type ProjectsHandler struct {
	deps     ProjectDependencies
	maxLimit int
	validate *validator.Validate
	logger   logger.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(deps ProjectDependencies, maxLimit int, l logger.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		deps:     deps,
		maxLimit: maxLimit,
		validate: validator.New(),
		logger:   l,
	}
}

// createProjectRequest mirrors the OpenAPI schema for POST /projects.
type createProjectRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	School      string `json:"school" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Grade       string `json:"grade" validate:"omitempty,oneof=X XI XII"`
}

// scoresRequest mirrors the OpenAPI schema for PUT /projects/{id}/scores.
// Range checks are left to the service so lenient mode can store any value.
type scoresRequest struct {
	Originality *int `json:"originality" validate:"required"`
	Usefulness  *int `json:"usefulness" validate:"required"`
	Technology  *int `json:"technology" validate:"required"`
	Creativity  *int `json:"creativity" validate:"required"`
}

// HandleList handles GET /projects?search=&school=&grade=&view=&limit= requests.
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_projects"
	params := r.URL.Query()
	viewerID, _ := viewer(r)

	view := params.Get("view")
	switch view {
	case "", ranking.ViewAll, ranking.ViewMine:
	default:
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: view must be all or mine", op, ErrBadRequest))
		return
	}

	limit := 0
	if s := params.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: invalid limit", op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%s: %w (%d)", op, ErrLimitExceeded, h.maxLimit))
			return
		}
		limit = n
	}

	entries, err := h.deps.Projects(r.Context(), ranking.Query{
		Search:   params.Get("search"),
		School:   params.Get("school"),
		Grade:    params.Get("grade"),
		ViewerID: viewerID,
		ViewMode: view,
	})
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleCreate handles POST /projects requests.
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_project"
	viewerID, viewerName := viewer(r)
	if viewerID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", fmt.Errorf("%s: %w", op, ErrNoViewer))
		return
	}

	var req createProjectRequest
	if !h.decode(w, r, op, &req) {
		return
	}

	p, err := h.deps.AddProject(r.Context(), model.NewProject{
		Title:       req.Title,
		School:      req.School,
		Description: req.Description,
		Grade:       model.Grade(req.Grade),
		OwnerID:     viewerID,
		OwnerName:   viewerName,
	})
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleSaveScores handles PUT /projects/{id}/scores requests.
func (h *ProjectsHandler) HandleSaveScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_scores"
	viewerID, _ := viewer(r)

	var req scoresRequest
	if !h.decode(w, r, op, &req) {
		return
	}

	p, err := h.deps.SaveScores(r.Context(), viewerID, r.PathValue("id"), model.Scores{
		Originality: *req.Originality,
		Usefulness:  *req.Usefulness,
		Technology:  *req.Technology,
		Creativity:  *req.Creativity,
	})
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /projects/{id} requests.
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_project"
	viewerID, _ := viewer(r)
	if err := h.deps.DeleteProject(r.Context(), viewerID, r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body into dst and validates it. On failure the
// response has been written and false is returned.
func (h *ProjectsHandler) decode(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: invalid JSON body", op, ErrBadRequest))
		return false
	}

	err := h.validate.Struct(dst)
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return false
	}
	details := make(map[string]string, len(ve))
	for _, fe := range ve {
		details[fe.Field()] = fe.Tag()
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    "validation_failed",
		Message: fmt.Sprintf("%s: %v", op, ErrBadRequest),
		Details: details,
	})
	return false
}
