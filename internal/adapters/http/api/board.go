package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/feblcsack/partyRock/internal/domain/aggregate"
	"github.com/feblcsack/partyRock/internal/domain/types"
	"github.com/feblcsack/partyRock/pkg/logger"
)

// BoardDependencies defines the read operations behind the leaderboard panels.
type BoardDependencies interface {
	Leader(ctx context.Context) (Entry, bool, error)
	SchoolStats(ctx context.Context) ([]aggregate.SchoolStat, error)
	Summary(ctx context.Context) (aggregate.GlobalStats, error)
	Filters(ctx context.Context) (types.Filters, error)
}

// BoardHandler handles leader, statistics and filter requests.
type BoardHandler struct {
	deps   BoardDependencies
	logger logger.Logger
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps BoardDependencies, l logger.Logger) *BoardHandler {
	return &BoardHandler{deps: deps, logger: l}
}

// HandleLeader handles GET /leader requests.
func (h *BoardHandler) HandleLeader(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leader"
	e, ok, err := h.deps.Leader(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%s: %w", op, ErrNoLeader))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleSchoolStats handles GET /schools/stats requests.
func (h *BoardHandler) HandleSchoolStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_school_stats"
	stats, err := h.deps.SchoolStats(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleSummary handles GET /summary requests.
func (h *BoardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	g, err := h.deps.Summary(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleFilters handles GET /filters requests.
func (h *BoardHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_filters"
	f, err := h.deps.Filters(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}
