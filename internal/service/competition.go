package service

import (
	"context"
	"fmt"

	"github.com/campushub/competition-api/internal/domain"
)

type CompetitionService struct {
	repo CompetitionRepository
}

func NewCompetitionService(repo CompetitionRepository) *CompetitionService {
	return &CompetitionService{
		repo: repo,
	}
}

func (s *CompetitionService) CreateCompetition(ctx context.Context, competition domain.Competition) (domain.Competition, error) {
	created, err := s.repo.Create(ctx, competition)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CompetitionService) GetCompetition(ctx context.Context, id uint) (domain.Competition, error) {
	competition, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Competition{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return competition, nil
}
