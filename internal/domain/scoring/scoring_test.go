package scoring_test

import (
	"errors"
	"testing"

	"github.com/feblcsack/partyRock/internal/domain/model"
	scoring "github.com/feblcsack/partyRock/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWeightedScore(t *testing.T) {
	Convey("Given the fixed rubric weights", t, func() {
		Convey("When the scores are nil", func() {
			Convey("Then the weighted score should be 0", func() {
				So(scoring.WeightedScore(nil), ShouldEqual, 0)
			})
		})

		Convey("When every criterion is 100", func() {
			s := &model.Scores{Originality: 100, Usefulness: 100, Technology: 100, Creativity: 100}

			Convey("Then the weighted score should be 100", func() {
				So(scoring.WeightedScore(s), ShouldAlmostEqual, 100.0)
			})
		})

		Convey("When the criteria differ", func() {
			s := &model.Scores{Originality: 80, Usefulness: 90, Technology: 70, Creativity: 60}

			Convey("Then it should apply 0.35/0.35/0.20/0.10", func() {
				// 28 + 31.5 + 14 + 6
				So(scoring.WeightedScore(s), ShouldAlmostEqual, 79.5)
			})
		})

		Convey("When only one criterion is set", func() {
			Convey("Then each weight should contribute on its own", func() {
				So(scoring.WeightedScore(&model.Scores{Originality: 100}), ShouldAlmostEqual, 35.0)
				So(scoring.WeightedScore(&model.Scores{Usefulness: 100}), ShouldAlmostEqual, 35.0)
				So(scoring.WeightedScore(&model.Scores{Technology: 100}), ShouldAlmostEqual, 20.0)
				So(scoring.WeightedScore(&model.Scores{Creativity: 100}), ShouldAlmostEqual, 10.0)
			})
		})

		Convey("When criteria are out of range", func() {
			s := &model.Scores{Originality: 200, Usefulness: -10, Technology: 0, Creativity: 0}

			Convey("Then the formula result should be returned unclamped", func() {
				So(scoring.WeightedScore(s), ShouldAlmostEqual, 66.5)
			})
		})

		Convey("When sweeping valid inputs", func() {
			Convey("Then the result should stay within [0, 100]", func() {
				for v := 0; v <= 100; v += 5 {
					s := &model.Scores{Originality: v, Usefulness: 100 - v, Technology: v, Creativity: 100 - v}
					got := scoring.WeightedScore(s)
					So(got, ShouldBeGreaterThanOrEqualTo, 0)
					So(got, ShouldBeLessThanOrEqualTo, 100+1e-9)
				}
			})
		})
	})
}

func TestCriteria(t *testing.T) {
	Convey("Given the rubric criteria", t, func() {
		criteria := scoring.Criteria()

		Convey("Then they should be listed in display order", func() {
			So(len(criteria), ShouldEqual, 4)
			So(criteria[0].Key, ShouldEqual, "originality")
			So(criteria[3].Key, ShouldEqual, "creativity")
		})

		Convey("And the weights should sum to 1", func() {
			sum := 0.0
			for _, c := range criteria {
				sum += c.Weight
			}
			So(sum, ShouldAlmostEqual, 1.0)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given strict validation", t, func() {
		valid := model.Project{
			ID:     "p-1",
			Title:  "Solar Dryer",
			School: "SMA 1",
			Grade:  model.GradeXI,
			Scores: &model.Scores{Originality: 10, Usefulness: 20, Technology: 30, Creativity: 40},
		}

		Convey("When the project is well formed", func() {
			Convey("Then it should pass", func() {
				So(scoring.Validate(valid), ShouldBeNil)
			})
		})

		Convey("When the project is unscored and has no grade", func() {
			p := valid
			p.Scores = nil
			p.Grade = ""

			Convey("Then it should pass", func() {
				So(scoring.Validate(p), ShouldBeNil)
			})
		})

		Convey("When the title is missing", func() {
			p := valid
			p.Title = ""

			Convey("Then it should fail with ErrInvalidProjectData", func() {
				err := scoring.Validate(p)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, scoring.ErrInvalidProjectData), ShouldBeTrue)
			})
		})

		Convey("When the grade is unknown", func() {
			p := valid
			p.Grade = "IX"

			Convey("Then it should fail", func() {
				So(errors.Is(scoring.Validate(p), scoring.ErrInvalidProjectData), ShouldBeTrue)
			})
		})

		Convey("When a criterion is out of range", func() {
			p := valid
			p.Scores = &model.Scores{Originality: 101}

			Convey("Then it should fail", func() {
				So(errors.Is(scoring.Validate(p), scoring.ErrInvalidProjectData), ShouldBeTrue)
				So(scoring.InRange(*p.Scores), ShouldBeFalse)
			})
		})

		Convey("When validating scores alone", func() {
			Convey("Then negative values should be rejected", func() {
				So(scoring.ValidateScores(model.Scores{Creativity: -1}), ShouldNotBeNil)
				So(scoring.ValidateScores(model.Scores{Creativity: 100}), ShouldBeNil)
			})
		})

		Convey("When validating a submission without an owner", func() {
			Convey("Then it should fail", func() {
				err := scoring.ValidateNew(model.NewProject{Title: "t", School: "s"})
				So(errors.Is(err, scoring.ErrInvalidProjectData), ShouldBeTrue)
			})
		})
	})
}
