package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/repository"
)

var (
	ErrSubmissionNotFound = repository.ErrSubmissionNotFound
	ErrSubmissionClosed   = errors.New("submissions are closed for this competition")
	ErrTeamWithdrawn      = errors.New("team has withdrawn from the competition")
)

type SubmissionRepository interface {
	Upsert(ctx context.Context, teamID, actorID uint, fields domain.SubmissionFields) (domain.Submission, error)
	FindByTeamID(ctx context.Context, teamID uint) (domain.Submission, error)
	FindByID(ctx context.Context, id uint) (domain.Submission, error)
}

type SubmissionService struct {
	repo     SubmissionRepository
	teamRepo TeamRepository
	compRepo CompetitionReader
}

func NewSubmissionService(repo SubmissionRepository, teamRepo TeamRepository, compRepo CompetitionReader) *SubmissionService {
	return &SubmissionService{
		repo:     repo,
		teamRepo: teamRepo,
		compRepo: compRepo,
	}
}

// SubmitProject writes the team's submission. Only the leader may write, and
// only until the competition locks. Repeated pre-lock writes overwrite the
// fields wholesale; concurrent leader writes race on last-write-wins, which
// is accepted behavior rather than a bug.
func (s *SubmissionService) SubmitProject(ctx context.Context, teamID, actingUserID uint, fields domain.SubmissionFields) (domain.Submission, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.teamRepo.FindByID -> %w", err)
	}
	if team.State != domain.TeamActive {
		return domain.Submission{}, ErrTeamWithdrawn
	}
	if team.LeaderID != actingUserID {
		return domain.Submission{}, ErrNotLeader
	}

	competition, err := s.compRepo.FindByID(ctx, team.CompetitionID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.compRepo.FindByID -> %w", err)
	}
	if competition.State == domain.CompetitionLocked || competition.State == domain.CompetitionPublished {
		return domain.Submission{}, ErrSubmissionClosed
	}

	submission, err := s.repo.Upsert(ctx, teamID, actingUserID, fields)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.repo.Upsert -> %w", err)
	}

	return submission, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, teamID uint) (domain.Submission, error) {
	submission, err := s.repo.FindByTeamID(ctx, teamID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.repo.FindByTeamID -> %w", err)
	}

	return submission, nil
}
