package domain

import "time"

// CriterionScore is one judge's mark on a single judging criterion.
type CriterionScore struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// WeightedTotal collapses a criterion breakdown into a single score.
// Returns 0 when the weights sum to zero.
func WeightedTotal(criteria []CriterionScore) float64 {
	var sum, weights float64
	for _, c := range criteria {
		sum += c.Score * c.Weight
		weights += c.Weight
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

type ScoreEntry struct {
	ID           uint             `json:"id"`
	SubmissionID uint             `json:"submission_id"`
	JudgeID      uint             `json:"judge_id"`
	Total        float64          `json:"total"`
	Breakdown    []CriterionScore `json:"breakdown"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type LeaderboardEntry struct {
	CompetitionID uint      `json:"competition_id"`
	TeamID        uint      `json:"team_id"`
	Score         float64   `json:"score"`
	Rank          int       `json:"rank"`
	ComputedAt    time.Time `json:"computed_at"`
}
