package repository

import (
	"context"
	"sync"
	"time"

	"github.com/feblcsack/partyRock/internal/domain/model"
	"github.com/feblcsack/partyRock/pkg/metrics"
)

// MemoryStore keeps projects in memory in insertion order.
// Returned projects are copies; callers may modify them freely.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]model.Project
	opts  storeOptions
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID: make(map[string]model.Project),
		opts: defaultStoreOptions(),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// List returns every project in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]model.Project, error) {
	defer observe("list", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Project, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clone(s.byID[id]))
	}
	return out, nil
}

// ListByOwner returns the projects created by ownerID.
func (s *MemoryStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error) {
	defer observe("list_by_owner", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Project, 0)
	for _, id := range s.order {
		if p := s.byID[id]; p.OwnerID == ownerID {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

// Get returns one project by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.Project, error) {
	defer observe("get", time.Now())
	if err := ctx.Err(); err != nil {
		return model.Project{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		metrics.RecordStoreError("get")
		return model.Project{}, ErrNotFound
	}
	return clone(p), nil
}

// Add stores a new unscored project.
func (s *MemoryStore) Add(ctx context.Context, np model.NewProject) (model.Project, error) {
	defer observe("add", time.Now())
	if err := ctx.Err(); err != nil {
		return model.Project{}, err
	}
	now := s.opts.now()
	p := model.Project{
		ID:          s.opts.newID(),
		Title:       np.Title,
		School:      np.School,
		Description: np.Description,
		Grade:       np.Grade,
		OwnerID:     np.OwnerID,
		OwnerName:   np.OwnerName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[p.ID] = p
	s.order = append(s.order, p.ID)
	return clone(p), nil
}

// UpdateScores replaces the scores of a project.
func (s *MemoryStore) UpdateScores(ctx context.Context, id string, sc model.Scores) (model.Project, error) {
	defer observe("update_scores", time.Now())
	if err := ctx.Err(); err != nil {
		return model.Project{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		metrics.RecordStoreError("update_scores")
		return model.Project{}, ErrNotFound
	}
	p.Scores = &sc
	p.UpdatedAt = s.opts.now()
	s.byID[id] = p
	return clone(p), nil
}

// Delete removes a project.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	defer observe("delete", time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		metrics.RecordStoreError("delete")
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored projects.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

func clone(p model.Project) model.Project {
	if p.Scores != nil {
		sc := *p.Scores
		p.Scores = &sc
	}
	return p
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000.0)
}
