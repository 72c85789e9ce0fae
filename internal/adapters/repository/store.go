// Package repository persists projects and their scores.
package repository

import (
	"context"

	"github.com/feblcsack/partyRock/internal/domain/model"
)

// Store provides read/write access to projects.
type Store interface {
	// List returns every project in insertion order.
	List(ctx context.Context) ([]model.Project, error)
	// ListByOwner returns the projects created by ownerID in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Project, error)
	// Get returns one project. Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.Project, error)

	// Add stores a new unscored project and returns it with ID and timestamps set.
	Add(ctx context.Context, p model.NewProject) (model.Project, error)
	// UpdateScores replaces the scores of a project.
	// Returns ErrNotFound if the id is unknown.
	UpdateScores(ctx context.Context, id string, s model.Scores) (model.Project, error)
	// Delete removes a project. Returns ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored projects.
	Count(ctx context.Context) (int, error)
}
