// Package scoring computes the weighted rubric score of a project.
package scoring

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/feblcsack/partyRock/internal/domain/model"
)

// Rubric weights. They sum to 1 so a perfect rubric scores 100.
const (
	WeightOriginality = 0.35
	WeightUsefulness  = 0.35
	WeightTechnology  = 0.20
	WeightCreativity  = 0.10
)

// Bounds of a single criterion.
const (
	MinCriterionScore = 0
	MaxCriterionScore = 100
)

// Criterion describes one rubric column.
type Criterion struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// Criteria returns the rubric in display order.
func Criteria() []Criterion {
	return []Criterion{
		{Key: "originality", Label: "Originality", Weight: WeightOriginality},
		{Key: "usefulness", Label: "Usefulness", Weight: WeightUsefulness},
		{Key: "technology", Label: "Technology", Weight: WeightTechnology},
		{Key: "creativity", Label: "Creativity", Weight: WeightCreativity},
	}
}

// WeightedScore combines the rubric into a single score. Nil scores count as 0.
// Inputs are not validated: out-of-range criteria produce whatever the formula yields.
func WeightedScore(s *model.Scores) float64 {
	if s == nil {
		return 0
	}
	return float64(s.Originality)*WeightOriginality +
		float64(s.Usefulness)*WeightUsefulness +
		float64(s.Technology)*WeightTechnology +
		float64(s.Creativity)*WeightCreativity
}

// InRange reports whether every criterion lies in [0, 100].
func InRange(s model.Scores) bool {
	for _, v := range []int{s.Originality, s.Usefulness, s.Technology, s.Creativity} {
		if v < MinCriterionScore || v > MaxCriterionScore {
			return false
		}
	}
	return true
}

var validate = validator.New()

// Validate checks a project in strict mode.
func Validate(p model.Project) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProjectData, err)
	}
	return nil
}

// ValidateScores checks a rubric in strict mode.
func ValidateScores(s model.Scores) error {
	if !InRange(s) {
		return fmt.Errorf("%w: every criterion must lie in [%d, %d]",
			ErrInvalidProjectData, MinCriterionScore, MaxCriterionScore)
	}
	return nil
}

// ValidateNew checks a submission in strict mode.
func ValidateNew(p model.NewProject) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProjectData, err)
	}
	return nil
}
