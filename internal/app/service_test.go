package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/feblcsack/partyRock/internal/adapters/repository"
	service "github.com/feblcsack/partyRock/internal/app"
	"github.com/feblcsack/partyRock/internal/domain/model"
	"github.com/feblcsack/partyRock/internal/domain/ranking"
	"github.com/feblcsack/partyRock/internal/domain/report"
	"github.com/feblcsack/partyRock/internal/domain/scoring"
	"github.com/feblcsack/partyRock/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var fixedNow = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

func startService(opts ...service.Option) (*service.Service, context.Context) {
	ctx := context.Background()
	opts = append([]service.Option{service.WithClock(func() time.Time { return fixedNow })}, opts...)
	svc := service.New(opts...)
	So(svc.Start(ctx), ShouldBeNil)
	return svc, ctx
}

// seed adds the reference scenario: school A with one scored and one
// unscored project, school B with one perfect project.
func seed(ctx context.Context, svc *service.Service) (a1, a2, b1 model.Project) {
	var err error
	a1, err = svc.AddProject(ctx, model.NewProject{Title: "Hydroponics", School: "A", Grade: model.GradeX, OwnerID: "u1", OwnerName: "Ayu"})
	So(err, ShouldBeNil)
	a2, err = svc.AddProject(ctx, model.NewProject{Title: "Compost Bin", School: "A", OwnerID: "u2"})
	So(err, ShouldBeNil)
	b1, err = svc.AddProject(ctx, model.NewProject{Title: "Solar Car", School: "B", Grade: model.GradeXII, OwnerID: "u3", OwnerName: "Budi"})
	So(err, ShouldBeNil)

	a1, err = svc.SaveScores(ctx, "u1", a1.ID, model.Scores{Originality: 80, Usefulness: 90, Technology: 70, Creativity: 60})
	So(err, ShouldBeNil)
	b1, err = svc.SaveScores(ctx, "u3", b1.ID, model.Scores{Originality: 100, Usefulness: 100, Technology: 100, Creativity: 100})
	So(err, ShouldBeNil)
	return a1, a2, b1
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["topN"], ShouldEqual, 10)
			So(stats["strictValidation"], ShouldEqual, false)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithStore(repository.NewMemoryStore()),
			service.WithStrictValidation(true),
			service.WithTopN(3),
			service.WithLogger(logger.Get()),
		)

		Convey("Then the options should be applied", func() {
			stats := svc.GetStats()
			So(stats["topN"], ShouldEqual, 3)
			So(stats["strictValidation"], ShouldEqual, true)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("Then operations should report that it is not started", func() {
			_, err := svc.Projects(context.Background(), ranking.Query{})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.AddProject(context.Background(), model.NewProject{Title: "t"})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a started service", t, func() {
		svc, _ := startService()

		Convey("Then it should be marked as started", func() {
			So(svc.GetStats()["started"], ShouldEqual, true)
			So(svc.GetStats()["totalProjects"], ShouldEqual, 0)
		})

		Convey("When starting it twice", func() {
			So(svc.Start(context.Background()), ShouldBeNil)

			Convey("Then it should stay started", func() {
				So(svc.GetStats()["started"], ShouldEqual, true)
			})
		})

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("Then it should refuse to start on the closed store", func() {
				So(errors.Is(svc.Start(context.Background()), service.ErrStopped), ShouldBeTrue)
				_, err := svc.Projects(context.Background(), ranking.Query{})
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Projects(t *testing.T) {
	Convey("Given the reference scenario", t, func() {
		svc, ctx := startService()
		defer svc.Stop()
		a1, a2, b1 := seed(ctx, svc)

		Convey("When listing without filters", func() {
			entries, err := svc.Projects(ctx, ranking.Query{})

			Convey("Then projects should be ranked by weighted score", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				So(entries[0].ID, ShouldEqual, b1.ID)
				So(entries[1].ID, ShouldEqual, a1.ID)
				So(entries[2].ID, ShouldEqual, a2.ID)
				So(entries[1].WeightedScore, ShouldAlmostEqual, 79.5)
				So(entries[2].Scored, ShouldBeFalse)
				So(entries[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When filtering by school and search", func() {
			entries, err := svc.Projects(ctx, ranking.Query{School: "A", Search: "hydro"})

			Convey("Then only the matching project should remain", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(entries[0].Title, ShouldEqual, "Hydroponics")
			})
		})

		Convey("When viewing only the viewer's projects", func() {
			entries, err := svc.Projects(ctx, ranking.Query{ViewMode: ranking.ViewMine, ViewerID: "u2"})

			Convey("Then only their project should be listed", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(entries[0].ID, ShouldEqual, a2.ID)
			})
		})

		Convey("When viewing mine without a viewer", func() {
			entries, err := svc.Projects(ctx, ranking.Query{ViewMode: ranking.ViewMine})

			Convey("Then the list should be empty", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("When asking for the leader", func() {
			leader, ok, err := svc.Leader(ctx)

			Convey("Then the perfect project should lead", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(leader.ID, ShouldEqual, b1.ID)
				So(leader.Rank, ShouldEqual, 1)
			})
		})

		Convey("When asking for school statistics and summary", func() {
			stats, err := svc.SchoolStats(ctx)
			So(err, ShouldBeNil)
			summary, err := svc.Summary(ctx)
			So(err, ShouldBeNil)

			Convey("Then B should rank above A and totals should match", func() {
				So(stats[0].School, ShouldEqual, "B")
				So(stats[1].AverageScore, ShouldAlmostEqual, 79.5)
				So(summary.Total, ShouldEqual, 3)
				So(summary.Scored, ShouldEqual, 2)
				So(summary.Mean, ShouldAlmostEqual, 89.75)
			})
		})

		Convey("When asking for filters", func() {
			f, err := svc.Filters(ctx)

			Convey("Then schools and grades should start with All", func() {
				So(err, ShouldBeNil)
				So(f.Schools, ShouldResemble, []string{"All", "A", "B"})
				So(f.Grades, ShouldResemble, []string{"All", "X", "XI", "XII"})
			})

			Convey("And the rubric legend should list the weighted criteria", func() {
				So(len(f.Criteria), ShouldEqual, 4)
				So(f.Criteria[0].Key, ShouldEqual, "originality")
				So(f.Criteria[3].Weight, ShouldEqual, 0.10)
			})
		})
	})

	Convey("Given only unscored projects", t, func() {
		svc, ctx := startService()
		defer svc.Stop()
		_, err := svc.AddProject(ctx, model.NewProject{Title: "t", School: "S", OwnerID: "u"})
		So(err, ShouldBeNil)

		Convey("Then there should be no leader", func() {
			_, ok, err := svc.Leader(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestService_Ownership(t *testing.T) {
	Convey("Given a project owned by u1", t, func() {
		svc, ctx := startService()
		defer svc.Stop()
		p, err := svc.AddProject(ctx, model.NewProject{Title: "t", School: "S", OwnerID: "u1"})
		So(err, ShouldBeNil)

		Convey("When another viewer scores it", func() {
			_, err := svc.SaveScores(ctx, "u2", p.ID, model.Scores{Originality: 1})

			Convey("Then it should be forbidden", func() {
				So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
			})
		})

		Convey("When an anonymous viewer deletes it", func() {
			err := svc.DeleteProject(ctx, "", p.ID)

			Convey("Then it should be forbidden", func() {
				So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
			})
		})

		Convey("When the owner deletes it", func() {
			So(svc.DeleteProject(ctx, "u1", p.ID), ShouldBeNil)

			Convey("Then it should be gone", func() {
				err := svc.DeleteProject(ctx, "u1", p.ID)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When scoring an unknown project", func() {
			_, err := svc.SaveScores(ctx, "u1", "missing", model.Scores{})

			Convey("Then it should not be found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Validation(t *testing.T) {
	Convey("Given a lenient service", t, func() {
		svc, ctx := startService()
		defer svc.Stop()
		p, err := svc.AddProject(ctx, model.NewProject{OwnerID: "u1"})

		Convey("Then incomplete projects and out-of-range scores should be stored", func() {
			So(err, ShouldBeNil)
			updated, err := svc.SaveScores(ctx, "u1", p.ID, model.Scores{Originality: 150, Usefulness: -10})
			So(err, ShouldBeNil)
			So(scoring.WeightedScore(updated.Scores), ShouldAlmostEqual, 49.0)
		})
	})

	Convey("Given a strict service", t, func() {
		svc, ctx := startService(service.WithStrictValidation(true))
		defer svc.Stop()

		Convey("When adding a project without a title", func() {
			_, err := svc.AddProject(ctx, model.NewProject{School: "S", OwnerID: "u1"})

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, scoring.ErrInvalidProjectData), ShouldBeTrue)
			})
		})

		Convey("When saving an out-of-range score", func() {
			p, err := svc.AddProject(ctx, model.NewProject{Title: "t", School: "S", OwnerID: "u1"})
			So(err, ShouldBeNil)
			_, err = svc.SaveScores(ctx, "u1", p.ID, model.Scores{Originality: 101})

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, scoring.ErrInvalidProjectData), ShouldBeTrue)
			})
		})
	})
}

func TestService_Reports(t *testing.T) {
	Convey("Given the reference scenario", t, func() {
		svc, ctx := startService(service.WithTopN(1))
		defer svc.Stop()
		seed(ctx, svc)

		Convey("When building the full report", func() {
			r, err := svc.FullReport(ctx)

			Convey("Then it should use the configured clock and top size", func() {
				So(err, ShouldBeNil)
				So(r.Kind, ShouldEqual, report.KindFull)
				So(r.GeneratedAt, ShouldEqual, fixedNow)
				top, ok := r.Section("Top 1")
				So(ok, ShouldBeTrue)
				So(len(top.Data()), ShouldEqual, 1)
				So(top.Data()[0][1].String(), ShouldEqual, "Solar Car")
			})
		})

		Convey("When building a school report", func() {
			r, err := svc.SchoolReport(ctx, "A")

			Convey("Then it should cover that school only", func() {
				So(err, ShouldBeNil)
				So(r.Kind, ShouldEqual, report.KindSchool)
				So(r.School, ShouldEqual, "A")
				So(len(r.Sections[1].Data()), ShouldEqual, 1)
			})
		})
	})
}
