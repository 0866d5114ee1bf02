package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeightedTotal(t *testing.T) {
	tests := []struct {
		name     string
		criteria []CriterionScore
		want     float64
	}{
		{
			name: "single criterion",
			criteria: []CriterionScore{
				{Name: "overall", Score: 80, Weight: 1},
			},
			want: 80,
		},
		{
			name: "weights skew the total",
			criteria: []CriterionScore{
				{Name: "innovation", Score: 100, Weight: 3},
				{Name: "polish", Score: 0, Weight: 1},
			},
			want: 75,
		},
		{
			name: "zero weights collapse to zero",
			criteria: []CriterionScore{
				{Name: "overall", Score: 90, Weight: 0},
			},
			want: 0,
		},
		{
			name: "empty breakdown",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WeightedTotal(tt.criteria), 0.0001)
		})
	}
}

func TestTeamResult_AggregateScore(t *testing.T) {
	assert.Equal(t, 0.0, TeamResult{}.AggregateScore())
	assert.InDelta(t, 75.0, TeamResult{JudgeTotals: []float64{70, 80}}.AggregateScore(), 0.0001)
}

func TestRank(t *testing.T) {
	early := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(2 * time.Hour)
	now := time.Now()

	entries := Rank(7, []TeamResult{
		{TeamID: 1, JudgeTotals: []float64{50}, SubmittedAt: late},
		{TeamID: 2, JudgeTotals: []float64{90}, SubmittedAt: late},
		{TeamID: 3, JudgeTotals: []float64{50}, SubmittedAt: early},
	}, now)

	wantOrder := []uint{2, 3, 1}
	for i, e := range entries {
		assert.Equal(t, wantOrder[i], e.TeamID)
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, uint(7), e.CompetitionID)
		assert.Equal(t, now, e.ComputedAt)
	}
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(1, nil, time.Now()))
}

func TestCertificateRoleForRank(t *testing.T) {
	assert.Equal(t, CertificateWinner, CertificateRoleForRank(1))
	assert.Equal(t, CertificateRunnerUp, CertificateRoleForRank(2))
	assert.Equal(t, CertificateRunnerUp, CertificateRoleForRank(3))
	assert.Equal(t, CertificateParticipant, CertificateRoleForRank(4))
	assert.Equal(t, CertificateParticipant, CertificateRoleForRank(100))
}

func TestCompetition_RegistrationOpen(t *testing.T) {
	now := time.Now()
	deadline := now.Add(time.Hour)

	open := Competition{State: CompetitionOpen, RegistrationDeadline: deadline}
	assert.True(t, open.RegistrationOpen(now))
	assert.False(t, open.RegistrationOpen(deadline))
	assert.False(t, open.RegistrationOpen(deadline.Add(time.Minute)))

	judging := Competition{State: CompetitionJudging, RegistrationDeadline: deadline}
	assert.False(t, judging.RegistrationOpen(now))
}
