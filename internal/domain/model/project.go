// Package model contains domain models passed between layers.
package model

import "time"

// Grade is the class level a project was submitted for.
type Grade string

// Known grades. An empty Grade means the submitter did not pick one.
const (
	GradeX   Grade = "X"
	GradeXI  Grade = "XI"
	GradeXII Grade = "XII"
)

// Grades lists the known grades in display order.
func Grades() []Grade {
	return []Grade{GradeX, GradeXI, GradeXII}
}

// Scores holds the four rubric criteria, each expected in [0, 100].
type Scores struct {
	Originality int `json:"originality" validate:"min=0,max=100"`
	Usefulness  int `json:"usefulness" validate:"min=0,max=100"`
	Technology  int `json:"technology" validate:"min=0,max=100"`
	Creativity  int `json:"creativity" validate:"min=0,max=100"`
}

// Project is a submitted school project as read from the store.
// Scores is nil until the owner rates the project.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required"`
	School      string    `json:"school" validate:"required"`
	Description string    `json:"description"`
	Grade       Grade     `json:"grade,omitempty" validate:"omitempty,oneof=X XI XII"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	Scores      *Scores   `json:"scores"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasScores reports whether the owner has rated the project.
func (p Project) HasScores() bool {
	return p.Scores != nil
}

// NewProject carries the fields a user supplies when submitting a project.
type NewProject struct {
	Title       string `json:"title" validate:"required"`
	School      string `json:"school" validate:"required"`
	Description string `json:"description"`
	Grade       Grade  `json:"grade,omitempty" validate:"omitempty,oneof=X XI XII"`
	OwnerID     string `json:"owner_id" validate:"required"`
	OwnerName   string `json:"owner_name"`
}
