// Package types contains common types used across the application
package types

import (
	"github.com/feblcsack/partyRock/internal/domain/model"
	"github.com/feblcsack/partyRock/internal/domain/scoring"
)

// Entry represents a ranked project row as shown on the leaderboard
type Entry struct {
	Rank          int           `json:"rank"`
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	School        string        `json:"school"`
	Description   string        `json:"description"`
	Grade         model.Grade   `json:"grade,omitempty"`
	OwnerID       string        `json:"owner_id"`
	OwnerName     string        `json:"owner_name"`
	Scores        *model.Scores `json:"scores"`
	WeightedScore float64       `json:"weighted_score"`
	Scored        bool          `json:"scored"`
}

// Filters lists the values offered by the school and grade pickers.
// Both lists start with "All". Criteria carries the rubric legend.
type Filters struct {
	Schools  []string            `json:"schools"`
	Grades   []string            `json:"grades"`
	Criteria []scoring.Criterion `json:"criteria"`
}
