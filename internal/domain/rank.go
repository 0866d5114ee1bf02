package domain

import (
	"sort"
	"time"
)

// TeamResult holds everything the ranking needs about one submitted team.
type TeamResult struct {
	TeamID      uint
	SubmittedAt time.Time
	JudgeTotals []float64
}

// AggregateScore is the mean of the per-judge weighted totals. A submitted
// team that received no scores aggregates to 0 and sorts to the bottom.
func (r TeamResult) AggregateScore() float64 {
	if len(r.JudgeTotals) == 0 {
		return 0
	}
	var sum float64
	for _, t := range r.JudgeTotals {
		sum += t
	}
	return sum / float64(len(r.JudgeTotals))
}

// Rank orders submitted teams strictly descending by aggregate score,
// breaking ties by earliest submission time, and assigns ranks 1..n.
func Rank(competitionID uint, results []TeamResult, computedAt time.Time) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, LeaderboardEntry{
			CompetitionID: competitionID,
			TeamID:        r.TeamID,
			Score:         r.AggregateScore(),
			ComputedAt:    computedAt,
		})
	}

	submittedAt := make(map[uint]time.Time, len(results))
	for _, r := range results {
		submittedAt[r.TeamID] = r.SubmittedAt
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return submittedAt[entries[i].TeamID].Before(submittedAt[entries[j].TeamID])
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
