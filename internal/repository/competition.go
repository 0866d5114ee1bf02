package repository

import (
	"context"
	"fmt"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/repository/dao"
)

var (
	ErrCompetitionNotFound = dao.ErrCompetitionNotFound
	ErrCompetitionNotOpen  = dao.ErrCompetitionNotOpen
	ErrNotJudging          = dao.ErrNotJudging
	ErrAlreadyLocked       = dao.ErrAlreadyLocked
	ErrNotLocked           = dao.ErrNotLocked
)

type CompetitionDAO interface {
	Insert(ctx context.Context, competition dao.Competition) (dao.Competition, error)
	FindByID(ctx context.Context, id uint) (dao.Competition, error)
	StartJudging(ctx context.Context, id uint) error
	LockAndRank(ctx context.Context, competitionID uint) ([]dao.LeaderboardEntry, error)
	Publish(ctx context.Context, id uint) error
	FindLeaderboard(ctx context.Context, competitionID uint) ([]dao.LeaderboardEntry, error)
}

type CompetitionRepository struct {
	dao CompetitionDAO
}

func NewCompetitionRepository(dao CompetitionDAO) *CompetitionRepository {
	return &CompetitionRepository{
		dao: dao,
	}
}

func (r *CompetitionRepository) Create(ctx context.Context, competition domain.Competition) (domain.Competition, error) {
	created, err := r.dao.Insert(ctx, dao.Competition{
		Name:                 competition.Name,
		State:                string(domain.CompetitionOpen),
		MinTeamSize:          competition.MinTeamSize,
		MaxTeamSize:          competition.MaxTeamSize,
		RegistrationDeadline: competition.RegistrationDeadline,
	})
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CompetitionRepository) FindByID(ctx context.Context, id uint) (domain.Competition, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CompetitionRepository) StartJudging(ctx context.Context, id uint) error {
	return r.dao.StartJudging(ctx, id)
}

func (r *CompetitionRepository) LockAndRank(ctx context.Context, competitionID uint) ([]domain.LeaderboardEntry, error) {
	entries, err := r.dao.LockAndRank(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	return r.entriesDaoToDomain(entries), nil
}

func (r *CompetitionRepository) Publish(ctx context.Context, id uint) error {
	return r.dao.Publish(ctx, id)
}

func (r *CompetitionRepository) FindLeaderboard(ctx context.Context, competitionID uint) ([]domain.LeaderboardEntry, error) {
	entries, err := r.dao.FindLeaderboard(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindLeaderboard -> %w", err)
	}

	return r.entriesDaoToDomain(entries), nil
}

func (r *CompetitionRepository) daoToDomain(c dao.Competition) domain.Competition {
	return domain.Competition{
		ID:                   c.ID,
		Name:                 c.Name,
		State:                domain.CompetitionState(c.State),
		MinTeamSize:          c.MinTeamSize,
		MaxTeamSize:          c.MaxTeamSize,
		RegistrationDeadline: c.RegistrationDeadline,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

func (r *CompetitionRepository) entriesDaoToDomain(entries []dao.LeaderboardEntry) []domain.LeaderboardEntry {
	converted := make([]domain.LeaderboardEntry, len(entries))
	for i, e := range entries {
		converted[i] = domain.LeaderboardEntry{
			CompetitionID: e.CompetitionID,
			TeamID:        e.TeamID,
			Score:         e.Score,
			Rank:          e.Rank,
			ComputedAt:    e.ComputedAt,
		}
	}
	return converted
}
