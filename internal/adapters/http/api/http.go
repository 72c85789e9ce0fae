// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/cors"

	"github.com/feblcsack/partyRock/internal/adapters/repository"
	service "github.com/feblcsack/partyRock/internal/app"
	"github.com/feblcsack/partyRock/internal/domain/scoring"
	"github.com/feblcsack/partyRock/internal/domain/types"
	"github.com/feblcsack/partyRock/pkg/logger"
)

// Viewer identity headers, set by the authentication layer in front of the API.
const (
	HeaderViewerID   = "X-Viewer-ID"
	HeaderViewerName = "X-Viewer-Name"
)

const defaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ProjectDependencies
	BoardDependencies
	ReportDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	projectsHandler *ProjectsHandler
	boardHandler    *BoardHandler
	reportsHandler  *ReportsHandler
}

type serverOptions struct {
	maxLimit int
	logger   logger.Logger
}

// Option configures the Server.
type Option func(*serverOptions)

// WithMaxLimit caps the limit query parameter of GET /projects.
func WithMaxLimit(n int) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxLimit = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := serverOptions{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Named("api")
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		projectsHandler: NewProjectsHandler(deps, o.maxLimit, o.logger),
		boardHandler:    NewBoardHandler(deps, o.logger),
		reportsHandler:  NewReportsHandler(deps, o.logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /projects", MetricsMiddleware(s.projectsHandler.HandleList, "projects"))
	mux.HandleFunc("POST /projects", MetricsMiddleware(s.projectsHandler.HandleCreate, "projects"))
	mux.HandleFunc("PUT /projects/{id}/scores", MetricsMiddleware(s.projectsHandler.HandleSaveScores, "scores"))
	mux.HandleFunc("DELETE /projects/{id}", MetricsMiddleware(s.projectsHandler.HandleDelete, "projects"))

	mux.HandleFunc("GET /leader", MetricsMiddleware(s.boardHandler.HandleLeader, "leader"))
	mux.HandleFunc("GET /schools/stats", MetricsMiddleware(s.boardHandler.HandleSchoolStats, "school_stats"))
	mux.HandleFunc("GET /summary", MetricsMiddleware(s.boardHandler.HandleSummary, "summary"))
	mux.HandleFunc("GET /filters", MetricsMiddleware(s.boardHandler.HandleFilters, "filters"))

	mux.HandleFunc("GET /reports/full", MetricsMiddleware(s.reportsHandler.HandleFull, "reports"))
	mux.HandleFunc("GET /reports/schools/{school}", MetricsMiddleware(s.reportsHandler.HandleSchool, "reports"))
}

// WithCORS lets browser clients on origins call the API.
// With no origins h is returned unchanged.
func WithCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", HeaderViewerID, HeaderViewerName},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length"},
		MaxAge:         300,
	})(h)
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service and store failures to HTTP statuses.
func writeServiceError(ctx context.Context, w http.ResponseWriter, l logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, scoring.ErrInvalidProjectData):
		writeError(w, http.StatusBadRequest, "invalid_project", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		l.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", errors.New("internal error"))
	}
}

// viewer returns the identity the authentication layer attached to r.
func viewer(r *http.Request) (id, name string) {
	return r.Header.Get(HeaderViewerID), r.Header.Get(HeaderViewerName)
}
