package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/feblcsack/partyRock/internal/domain/model"
	"github.com/feblcsack/partyRock/internal/domain/scoring"
	"github.com/feblcsack/partyRock/pkg/logger"
)

// seedOwner owns seeded projects that name no owner.
const seedOwner = "seed"

// SeedProject is one entry of a seed file: a submission plus optional scores.
type SeedProject struct {
	model.NewProject
	Scores *model.Scores `json:"scores"`
}

func (sp SeedProject) project() model.Project {
	return model.Project{
		Title:       sp.Title,
		School:      sp.School,
		Description: sp.Description,
		Grade:       sp.Grade,
		OwnerID:     sp.OwnerID,
		OwnerName:   sp.OwnerName,
		Scores:      sp.Scores,
	}
}

// Import adds the projects of a JSON seed array read from r and scores the
// ones that carry scores. It returns how many projects were added.
// Import stops at the first failing entry. Earlier entries stay stored; the
// failing one is never left behind unscored.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	var seeds []SeedProject
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSeed, err)
	}

	added := 0
	for i, sp := range seeds {
		if sp.OwnerID == "" {
			sp.OwnerID = seedOwner
		}
		if s.strict {
			if err := scoring.Validate(sp.project()); err != nil {
				return added, fmt.Errorf("seed entry %d: %w", i, err)
			}
		}
		p, err := s.AddProject(ctx, sp.NewProject)
		if err != nil {
			return added, fmt.Errorf("seed entry %d: %w", i, err)
		}
		if sp.Scores != nil {
			if _, err := s.SaveScores(ctx, p.OwnerID, p.ID, *sp.Scores); err != nil {
				if derr := s.DeleteProject(ctx, p.OwnerID, p.ID); derr != nil {
					s.logger.Warn(ctx, "failed to remove partially seeded project",
						logger.String("id", p.ID), logger.Error(derr))
				}
				return added, fmt.Errorf("seed entry %d: %w", i, err)
			}
		}
		added++
	}

	s.logger.Info(ctx, "seed imported", logger.Int("projects", added))
	return added, nil
}
