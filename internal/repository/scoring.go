package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/repository/dao"
)

var ErrScoreEntryNotFound = dao.ErrScoreEntryNotFound

type ScoringDAO interface {
	Upsert(ctx context.Context, competitionID uint, entry dao.ScoreEntry) (dao.ScoreEntry, error)
	FindBySubmissionID(ctx context.Context, submissionID uint) ([]dao.ScoreEntry, error)
}

type ScoringRepository struct {
	dao ScoringDAO
}

func NewScoringRepository(dao ScoringDAO) *ScoringRepository {
	return &ScoringRepository{
		dao: dao,
	}
}

func (r *ScoringRepository) Upsert(ctx context.Context, competitionID uint, entry domain.ScoreEntry) (domain.ScoreEntry, error) {
	breakdown, err := json.Marshal(entry.Breakdown)
	if err != nil {
		return domain.ScoreEntry{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	saved, err := r.dao.Upsert(ctx, competitionID, dao.ScoreEntry{
		SubmissionID: entry.SubmissionID,
		JudgeID:      entry.JudgeID,
		Total:        entry.Total,
		Breakdown:    string(breakdown),
	})
	if err != nil {
		return domain.ScoreEntry{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return r.daoToDomain(saved)
}

func (r *ScoringRepository) FindBySubmissionID(ctx context.Context, submissionID uint) ([]domain.ScoreEntry, error) {
	entries, err := r.dao.FindBySubmissionID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBySubmissionID -> %w", err)
	}

	converted := make([]domain.ScoreEntry, 0, len(entries))
	for _, e := range entries {
		entry, err := r.daoToDomain(e)
		if err != nil {
			return nil, err
		}
		converted = append(converted, entry)
	}

	return converted, nil
}

func (r *ScoringRepository) daoToDomain(e dao.ScoreEntry) (domain.ScoreEntry, error) {
	var breakdown []domain.CriterionScore
	if e.Breakdown != "" {
		if err := json.Unmarshal([]byte(e.Breakdown), &breakdown); err != nil {
			return domain.ScoreEntry{}, fmt.Errorf("json.Unmarshal -> %w", err)
		}
	}

	return domain.ScoreEntry{
		ID:           e.ID,
		SubmissionID: e.SubmissionID,
		JudgeID:      e.JudgeID,
		Total:        e.Total,
		Breakdown:    breakdown,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}, nil
}
