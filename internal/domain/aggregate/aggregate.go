// Package aggregate derives per-school and global statistics from a project snapshot.
package aggregate

import (
	"sort"

	"github.com/feblcsack/partyRock/internal/domain/model"
	"github.com/feblcsack/partyRock/internal/domain/ranking"
	"github.com/feblcsack/partyRock/internal/domain/scoring"
)

// SchoolStat summarises the projects of one school.
type SchoolStat struct {
	School       string  `json:"school"`
	Total        int     `json:"total"`
	Scored       int     `json:"scored"`
	Unscored     int     `json:"unscored"`
	AverageScore float64 `json:"average_score"`
}

// GlobalStats summarises a whole snapshot. Score fields are 0 when nothing is scored.
type GlobalStats struct {
	Total    int     `json:"total"`
	Scored   int     `json:"scored"`
	Unscored int     `json:"unscored"`
	Schools  int     `json:"schools"`
	Highest  float64 `json:"highest"`
	Lowest   float64 `json:"lowest"`
	Mean     float64 `json:"mean"`
}

// SchoolStats groups projects by the literal school name.
func SchoolStats(projects []model.Project) map[string]SchoolStat {
	stats := make(map[string]SchoolStat)
	for _, st := range RankedSchools(projects) {
		stats[st.School] = st
	}
	return stats
}

// RankedSchools returns school statistics ordered by average score, highest
// first. Ties keep the order in which schools first appear in projects.
func RankedSchools(projects []model.Project) []SchoolStat {
	index := make(map[string]int)
	sums := make([]float64, 0)
	out := make([]SchoolStat, 0)
	for _, p := range projects {
		i, ok := index[p.School]
		if !ok {
			i = len(out)
			index[p.School] = i
			out = append(out, SchoolStat{School: p.School})
			sums = append(sums, 0)
		}
		out[i].Total++
		if p.HasScores() {
			out[i].Scored++
			sums[i] += scoring.WeightedScore(p.Scores)
		}
	}
	for i := range out {
		out[i].Unscored = out[i].Total - out[i].Scored
		if out[i].Scored > 0 {
			out[i].AverageScore = sums[i] / float64(out[i].Scored)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AverageScore > out[j].AverageScore
	})
	return out
}

// Scored returns the scored projects ranked by weighted score.
func Scored(projects []model.Project) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if p.HasScores() {
			out = append(out, p)
		}
	}
	ranking.SortByScore(out)
	return out
}

// Unscored returns the unscored projects in input order.
func Unscored(projects []model.Project) []model.Project {
	out := make([]model.Project, 0)
	for _, p := range projects {
		if !p.HasScores() {
			out = append(out, p)
		}
	}
	return out
}

// TopN returns at most n scored projects, best first.
func TopN(projects []model.Project, n int) []model.Project {
	if n <= 0 {
		return []model.Project{}
	}
	scored := Scored(projects)
	if n > len(scored) {
		n = len(scored)
	}
	return scored[:n]
}

// Global computes snapshot-wide counts and score statistics.
func Global(projects []model.Project) GlobalStats {
	return summarize(projects, Scored(projects))
}

func summarize(projects, scored []model.Project) GlobalStats {
	g := GlobalStats{
		Total:    len(projects),
		Scored:   len(scored),
		Unscored: len(projects) - len(scored),
		Schools:  len(ranking.Schools(projects)),
	}
	if len(scored) == 0 {
		return g
	}
	g.Highest = scoring.WeightedScore(scored[0].Scores)
	g.Lowest = scoring.WeightedScore(scored[len(scored)-1].Scores)
	var sum float64
	for _, p := range scored {
		sum += scoring.WeightedScore(p.Scores)
	}
	g.Mean = sum / float64(len(scored))
	return g
}
