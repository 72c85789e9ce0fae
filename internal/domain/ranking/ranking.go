// Package ranking filters projects and orders them by weighted score.
//
// Every function returns a fresh slice; the input is never reordered.
package ranking

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/feblcsack/partyRock/internal/domain/model"
	"github.com/feblcsack/partyRock/internal/domain/scoring"
	"github.com/feblcsack/partyRock/internal/domain/types"
)

// Filter sentinels.
const (
	// All disables the school or grade filter.
	All = "All"
	// ViewAll shows every project.
	ViewAll = "all"
	// ViewMine restricts the list to the viewer's own projects.
	ViewMine = "mine"
)

// Query selects which projects are ranked. Empty School, Grade and ViewMode
// behave like All / ViewAll.
type Query struct {
	Search   string
	School   string
	Grade    string
	ViewerID string
	ViewMode string
}

// matcher holds per-call state; cases.Caser must not be shared between goroutines.
type matcher struct {
	q      Query
	lower  cases.Caser
	needle string
}

func newMatcher(q Query) *matcher {
	m := &matcher{q: q, lower: cases.Lower(language.Und)}
	if q.Search != "" {
		m.needle = m.lower.String(q.Search)
	}
	return m
}

func (m *matcher) match(p model.Project) bool {
	if m.needle != "" &&
		!strings.Contains(m.lower.String(p.Title), m.needle) &&
		!strings.Contains(m.lower.String(p.School), m.needle) {
		return false
	}
	if m.q.School != "" && m.q.School != All && p.School != m.q.School {
		return false
	}
	if m.q.Grade != "" && m.q.Grade != All && string(p.Grade) != m.q.Grade {
		return false
	}
	if m.q.ViewMode == ViewMine && p.OwnerID != m.q.ViewerID {
		return false
	}
	return true
}

// Filter returns the projects matching every active filter, in input order.
func Filter(projects []model.Project, q Query) []model.Project {
	m := newMatcher(q)
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Rank filters projects and orders them by weighted score, highest first.
// Equal scores keep their input order.
func Rank(projects []model.Project, q Query) []model.Project {
	out := Filter(projects, q)
	SortByScore(out)
	return out
}

// SortByScore orders ps in place by weighted score descending (stable).
func SortByScore(ps []model.Project) {
	sort.SliceStable(ps, func(i, j int) bool {
		return scoring.WeightedScore(ps[i].Scores) > scoring.WeightedScore(ps[j].Scores)
	})
}

// Leader returns the top project of the unfiltered ranking.
// There is no leader while the top project is unscored.
func Leader(projects []model.Project) (model.Project, bool) {
	ranked := Rank(projects, Query{ViewMode: ViewAll})
	if len(ranked) == 0 || !ranked[0].HasScores() {
		return model.Project{}, false
	}
	return ranked[0], true
}

// Entries converts an already ranked slice into leaderboard rows.
func Entries(ranked []model.Project) []types.Entry {
	out := make([]types.Entry, len(ranked))
	for i, p := range ranked {
		out[i] = EntryOf(p, i+1)
	}
	return out
}

// EntryOf builds a single leaderboard row.
func EntryOf(p model.Project, rank int) types.Entry {
	return types.Entry{
		Rank:          rank,
		ID:            p.ID,
		Title:         p.Title,
		School:        p.School,
		Description:   p.Description,
		Grade:         p.Grade,
		OwnerID:       p.OwnerID,
		OwnerName:     p.OwnerName,
		Scores:        p.Scores,
		WeightedScore: scoring.WeightedScore(p.Scores),
		Scored:        p.HasScores(),
	}
}

// Schools lists distinct school names in first-seen order.
func Schools(projects []model.Project) []string {
	seen := make(map[string]struct{}, len(projects))
	out := make([]string, 0)
	for _, p := range projects {
		if _, ok := seen[p.School]; ok {
			continue
		}
		seen[p.School] = struct{}{}
		out = append(out, p.School)
	}
	return out
}
