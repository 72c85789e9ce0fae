// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the export command.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/feblcsack/partyRock/internal/adapters/repository"
	"github.com/feblcsack/partyRock/internal/domain/aggregate"
	"github.com/feblcsack/partyRock/internal/domain/model"
	"github.com/feblcsack/partyRock/internal/domain/ranking"
	"github.com/feblcsack/partyRock/internal/domain/report"
	"github.com/feblcsack/partyRock/internal/domain/scoring"
	"github.com/feblcsack/partyRock/internal/domain/types"
	"github.com/feblcsack/partyRock/pkg/logger"
	"github.com/feblcsack/partyRock/pkg/metrics"
)

const defaultTopN = 10

// Service implements the API dependencies for the project leaderboard.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Configuration
	strict bool
	topN   int
	now    func() time.Time

	// State
	started bool
	stopped bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the project store. Without it Start uses a MemoryStore.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrictValidation rejects incomplete projects and out-of-range scores on write.
func WithStrictValidation(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithTopN sets how many projects the full report's top section lists.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithClock sets the time source used for report export dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topN: defaultTopN,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.stopped {
		return ErrStopped
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory project store")
	}

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Bool("strictValidation", s.strict),
		logger.Int("topN", s.topN),
	)
	return nil
}

// Stop shuts down the service and closes the store when it can be closed.
// A stopped service cannot be started again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(context.Background(), "failed to close store", logger.Error(err))
		}
	}

	s.store = nil
	s.started = false
	s.stopped = true
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

func (s *Service) getStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// snapshot lists every project and refreshes the count gauges.
func (s *Service) snapshot(ctx context.Context) ([]model.Project, error) {
	store, err := s.getStore()
	if err != nil {
		return nil, err
	}
	projects, err := store.List(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "list")
		return nil, err
	}
	g := aggregate.Global(projects)
	metrics.UpdateProjectCounts(g.Total, g.Scored, g.Schools)
	return projects, nil
}

// Projects returns the filtered projects ranked by weighted score.
func (s *Service) Projects(ctx context.Context, q ranking.Query) ([]types.Entry, error) {
	var (
		projects []model.Project
		err      error
	)
	if q.ViewMode == ranking.ViewMine {
		if q.ViewerID == "" {
			return []types.Entry{}, nil
		}
		store, serr := s.getStore()
		if serr != nil {
			return nil, serr
		}
		projects, err = store.ListByOwner(ctx, q.ViewerID)
	} else {
		projects, err = s.snapshot(ctx)
	}
	if err != nil {
		return nil, err
	}

	ranked := ranking.Rank(projects, q)
	metrics.RecordRankingComputed()
	s.logger.Debug(ctx, "ranking computed",
		logger.String("search", q.Search),
		logger.String("school", q.School),
		logger.String("grade", q.Grade),
		logger.String("view", q.ViewMode),
		logger.Int("matches", len(ranked)),
	)
	return ranking.Entries(ranked), nil
}

// Leader returns the best scored project, if any.
func (s *Service) Leader(ctx context.Context) (types.Entry, bool, error) {
	projects, err := s.snapshot(ctx)
	if err != nil {
		return types.Entry{}, false, err
	}
	p, ok := ranking.Leader(projects)
	if !ok {
		return types.Entry{}, false, nil
	}
	return ranking.EntryOf(p, 1), true, nil
}

// SchoolStats returns per-school statistics, best average first.
func (s *Service) SchoolStats(ctx context.Context) ([]aggregate.SchoolStat, error) {
	projects, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.RankedSchools(projects), nil
}

// Summary returns snapshot-wide counts and score statistics.
func (s *Service) Summary(ctx context.Context) (aggregate.GlobalStats, error) {
	projects, err := s.snapshot(ctx)
	if err != nil {
		return aggregate.GlobalStats{}, err
	}
	return aggregate.Global(projects), nil
}

// Filters returns the school and grade picker values.
func (s *Service) Filters(ctx context.Context) (types.Filters, error) {
	projects, err := s.snapshot(ctx)
	if err != nil {
		return types.Filters{}, err
	}
	f := types.Filters{
		Schools:  append([]string{ranking.All}, ranking.Schools(projects)...),
		Grades:   []string{ranking.All},
		Criteria: scoring.Criteria(),
	}
	for _, g := range model.Grades() {
		f.Grades = append(f.Grades, string(g))
	}
	return f, nil
}

// AddProject stores a new unscored project.
func (s *Service) AddProject(ctx context.Context, np model.NewProject) (model.Project, error) {
	store, err := s.getStore()
	if err != nil {
		return model.Project{}, err
	}
	if s.strict {
		if err := scoring.ValidateNew(np); err != nil {
			return model.Project{}, err
		}
	}
	p, err := store.Add(ctx, np)
	if err != nil {
		metrics.RecordErrorByComponent("service", "add")
		return model.Project{}, err
	}
	s.logger.Info(ctx, "project added",
		logger.String("id", p.ID),
		logger.String("school", p.School),
		logger.String("owner", p.OwnerID),
	)
	return p, nil
}

// SaveScores replaces the scores of a project. Only the project owner may score it.
func (s *Service) SaveScores(ctx context.Context, viewerID, projectID string, sc model.Scores) (model.Project, error) {
	store, err := s.getStore()
	if err != nil {
		return model.Project{}, err
	}
	p, err := store.Get(ctx, projectID)
	if err != nil {
		return model.Project{}, err
	}
	if viewerID == "" || p.OwnerID != viewerID {
		metrics.RecordErrorByComponent("service", "forbidden")
		return model.Project{}, ErrForbidden
	}
	if s.strict {
		if err := scoring.ValidateScores(sc); err != nil {
			return model.Project{}, err
		}
	}
	updated, err := store.UpdateScores(ctx, projectID, sc)
	if err != nil {
		return model.Project{}, err
	}
	metrics.RecordScoresSaved()
	s.logger.Info(ctx, "scores saved",
		logger.String("id", projectID),
		logger.Float64("weightedScore", scoring.WeightedScore(updated.Scores)),
	)
	return updated, nil
}

// DeleteProject removes a project. Only the project owner may delete it.
func (s *Service) DeleteProject(ctx context.Context, viewerID, projectID string) error {
	store, err := s.getStore()
	if err != nil {
		return err
	}
	p, err := store.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if viewerID == "" || p.OwnerID != viewerID {
		metrics.RecordErrorByComponent("service", "forbidden")
		return ErrForbidden
	}
	if err := store.Delete(ctx, projectID); err != nil {
		return err
	}
	s.logger.Info(ctx, "project deleted", logger.String("id", projectID))
	return nil
}

// FullReport builds the multi-section report over every project.
func (s *Service) FullReport(ctx context.Context) (report.Report, error) {
	start := time.Now()
	projects, err := s.snapshot(ctx)
	if err != nil {
		return report.Report{}, err
	}
	r := report.BuildFullReport(projects, report.WithExportDate(s.now()), report.WithTopN(s.topN))
	s.recordReport(ctx, r, start)
	return r, nil
}

// SchoolReport builds the report for one school. The name must match exactly.
func (s *Service) SchoolReport(ctx context.Context, school string) (report.Report, error) {
	start := time.Now()
	projects, err := s.snapshot(ctx)
	if err != nil {
		return report.Report{}, err
	}
	r := report.BuildSchoolReport(projects, school, report.WithExportDate(s.now()))
	s.recordReport(ctx, r, start)
	return r, nil
}

func (s *Service) recordReport(ctx context.Context, r report.Report, start time.Time) {
	took := time.Since(start)
	metrics.RecordReportBuilt(string(r.Kind), float64(took.Microseconds())/1000.0)
	s.logger.Info(ctx, "report built",
		logger.String("kind", string(r.Kind)),
		logger.String("school", r.School),
		logger.Int("sections", len(r.Sections)),
		logger.Duration("took", took),
	)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	stats := map[string]interface{}{
		"started":          started,
		"strictValidation": s.strict,
		"topN":             s.topN,
	}
	s.mu.RUnlock()

	if started {
		if projects, err := s.snapshot(context.Background()); err == nil {
			g := aggregate.Global(projects)
			stats["totalProjects"] = g.Total
			stats["scoredProjects"] = g.Scored
			stats["totalSchools"] = g.Schools
		}
	}

	return stats
}
