// Package report assembles tabular assessment reports from a project snapshot.
//
// A Report is plain data. Writing it to a file format and naming the file is
// left to an export adapter.
package report

import (
	"fmt"
	"time"

	"github.com/feblcsack/partyRock/internal/domain/aggregate"
	"github.com/feblcsack/partyRock/internal/domain/model"
	"github.com/feblcsack/partyRock/internal/domain/scoring"
)

// Kind identifies which builder produced a report.
type Kind string

// Report kinds.
const (
	KindFull   Kind = "full"
	KindSchool Kind = "school"
)

// Section names.
const (
	SectionSummary  = "Summary"
	SectionAll      = "All Projects"
	SectionSchools  = "School Statistics"
	SectionUnscored = "Unscored"
	SectionProjects = "Projects"
)

const (
	defaultTopN       = 10
	defaultDateLayout = "Monday, 2 January 2006"
	missingGrade      = "-"
	missingOwner      = "Anonymous"
)

// Report is an ordered list of named sections.
type Report struct {
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	School      string    `json:"school,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// Section is a 2-D table. The first HeaderRows rows are title and column
// headers; the rest are data rows.
type Section struct {
	Name       string   `json:"name"`
	HeaderRows int      `json:"header_rows"`
	Rows       [][]Cell `json:"rows"`
}

// Section returns the section with the given name.
func (r Report) Section(name string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Data returns the rows after the header block.
func (s Section) Data() [][]Cell {
	if s.HeaderRows >= len(s.Rows) {
		return nil
	}
	return s.Rows[s.HeaderRows:]
}

// Option configures a report build.
type Option func(*options)

type options struct {
	now  time.Time
	topN int
}

// WithExportDate fixes the export date printed in the summary.
func WithExportDate(t time.Time) Option {
	return func(o *options) {
		if !t.IsZero() {
			o.now = t
		}
	}
}

// WithTopN sets how many projects the top section lists.
func WithTopN(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.topN = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{topN: defaultTopN}
	for _, opt := range opts {
		opt(&o)
	}
	if o.now.IsZero() {
		o.now = time.Now()
	}
	return o
}

// TopSectionName names the top-N section, e.g. "Top 10".
func TopSectionName(n int) string {
	return fmt.Sprintf("Top %d", n)
}

var rubricHeaders = []string{"Originality", "Usefulness", "Technology", "Creativity", "Final Score"}

// BuildFullReport builds the five-section report over every project.
// The unscored section is omitted when every project is scored.
func BuildFullReport(projects []model.Project, opts ...Option) Report {
	o := buildOptions(opts)
	scored := aggregate.Scored(projects)
	global := aggregate.Global(projects)

	r := Report{
		Kind:        KindFull,
		Title:       "PROJECT ASSESSMENT REPORT",
		GeneratedAt: o.now,
	}

	r.Sections = append(r.Sections, Section{
		Name:       SectionSummary,
		HeaderRows: 1,
		Rows: [][]Cell{
			{Text(r.Title)},
			{Text("Export date:"), Text(o.now.Format(defaultDateLayout))},
			{},
			{Text("DATA SUMMARY")},
			{Text("Total projects:"), Int(global.Total)},
			{Text("Scored projects:"), Int(global.Scored)},
			{Text("Unscored projects:"), Int(global.Unscored)},
			{Text("Total schools:"), Int(global.Schools)},
			{},
			{Text("SCORE STATISTICS")},
			{Text("Highest score:"), Score(global.Highest)},
			{Text("Lowest score:"), Score(global.Lowest)},
			{Text("Average score:"), Score(global.Mean)},
		},
	})

	top := aggregate.TopN(projects, o.topN)
	topHeader := append([]string{"Rank", "Title", "School", "Grade", "Owner"}, rubricHeaders...)
	topSec := table(TopSectionName(o.topN), fmt.Sprintf("TOP %d PROJECTS", o.topN), topHeader)
	for i, p := range top {
		row := []Cell{Int(i + 1), Text(p.Title), Text(p.School), gradeCell(p), ownerCell(p)}
		topSec.Rows = append(topSec.Rows, append(row, rubricCells(p)...))
	}
	r.Sections = append(r.Sections, topSec)

	allHeader := append([]string{"Rank", "Title", "School", "Grade", "Owner", "Description"}, rubricHeaders...)
	allSec := table(SectionAll, "ALL PROJECTS (SCORED)", allHeader)
	for i, p := range scored {
		row := []Cell{Int(i + 1), Text(p.Title), Text(p.School), gradeCell(p), ownerCell(p), Text(p.Description)}
		allSec.Rows = append(allSec.Rows, append(row, rubricCells(p)...))
	}
	r.Sections = append(r.Sections, allSec)

	schoolSec := table(SectionSchools, "STATISTICS PER SCHOOL",
		[]string{"Rank", "School", "Total Projects", "Scored", "Unscored", "Average Score"})
	for i, st := range aggregate.RankedSchools(projects) {
		schoolSec.Rows = append(schoolSec.Rows, []Cell{
			Int(i + 1), Text(st.School), Int(st.Total), Int(st.Scored), Int(st.Unscored), Score(st.AverageScore),
		})
	}
	r.Sections = append(r.Sections, schoolSec)

	if unscored := aggregate.Unscored(projects); len(unscored) > 0 {
		unSec := table(SectionUnscored, "UNSCORED PROJECTS",
			[]string{"No", "Title", "School", "Grade", "Owner", "Description"})
		for i, p := range unscored {
			unSec.Rows = append(unSec.Rows, []Cell{
				Int(i + 1), Text(p.Title), Text(p.School), gradeCell(p), ownerCell(p), Text(p.Description),
			})
		}
		r.Sections = append(r.Sections, unSec)
	}

	return r
}

// BuildSchoolReport builds the two-section report for projects whose school
// equals school exactly.
func BuildSchoolReport(projects []model.Project, school string, opts ...Option) Report {
	o := buildOptions(opts)
	own := make([]model.Project, 0)
	for _, p := range projects {
		if p.School == school {
			own = append(own, p)
		}
	}
	scored := aggregate.Scored(own)
	global := aggregate.Global(own)

	r := Report{
		Kind:        KindSchool,
		Title:       "PROJECT REPORT - " + school,
		School:      school,
		GeneratedAt: o.now,
	}

	r.Sections = append(r.Sections, Section{
		Name:       SectionSummary,
		HeaderRows: 1,
		Rows: [][]Cell{
			{Text(r.Title)},
			{Text("Export date:"), Text(o.now.Format(defaultDateLayout))},
			{},
			{Text("Total projects:"), Int(global.Total)},
			{Text("Scored:"), Int(global.Scored)},
			{Text("Unscored:"), Int(global.Unscored)},
			{},
			{Text("Highest score:"), Score(global.Highest)},
			{Text("Average score:"), Score(global.Mean)},
		},
	})

	header := append([]string{"Rank", "Title", "Grade", "Owner"}, rubricHeaders...)
	sec := table(SectionProjects, "PROJECTS "+school, header)
	for i, p := range scored {
		row := []Cell{Int(i + 1), Text(p.Title), gradeCell(p), ownerCell(p)}
		sec.Rows = append(sec.Rows, append(row, rubricCells(p)...))
	}
	r.Sections = append(r.Sections, sec)

	return r
}

// table starts a section with a title row, a blank row and a column header row.
func table(name, title string, header []string) Section {
	cols := make([]Cell, len(header))
	for i, h := range header {
		cols[i] = Text(h)
	}
	return Section{
		Name:       name,
		HeaderRows: 3,
		Rows:       [][]Cell{{Text(title)}, {}, cols},
	}
}

func rubricCells(p model.Project) []Cell {
	s := p.Scores
	if s == nil {
		s = &model.Scores{}
	}
	return []Cell{
		Int(s.Originality),
		Int(s.Usefulness),
		Int(s.Technology),
		Int(s.Creativity),
		Score(scoring.WeightedScore(p.Scores)),
	}
}

func gradeCell(p model.Project) Cell {
	if p.Grade == "" {
		return Text(missingGrade)
	}
	return Text(string(p.Grade))
}

func ownerCell(p model.Project) Cell {
	if p.OwnerName == "" {
		return Text(missingOwner)
	}
	return Text(p.OwnerName)
}
