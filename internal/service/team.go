package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/pkg/joincode"
	"github.com/campushub/competition-api/internal/repository"
)

var (
	ErrTeamNotFound       = repository.ErrTeamNotFound
	ErrDuplicateTeamName  = repository.ErrDuplicateTeamName
	ErrInvalidJoinCode    = repository.ErrInvalidJoinCode
	ErrTeamFull           = repository.ErrTeamFull
	ErrAlreadyOnTeam      = repository.ErrAlreadyOnTeam
	ErrNotOnTeam          = repository.ErrNotOnTeam
	ErrLeaderCannotLeave  = repository.ErrLeaderCannotLeave
	ErrNotLeader          = repository.ErrNotLeader
	ErrRegistrationClosed = errors.New("registration is closed for this competition")
	ErrCodeSpaceExhausted = errors.New("could not generate an unused join code")
)

// joinCodeAttempts bounds the regenerate-on-collision loop.
const joinCodeAttempts = 5

type TeamRepository interface {
	Create(ctx context.Context, team domain.Team) (domain.Team, error)
	FindByID(ctx context.Context, id uint) (domain.Team, error)
	Join(ctx context.Context, competitionID uint, joinCode string, userID uint, maxSize int) (domain.Membership, error)
	Leave(ctx context.Context, teamID, userID uint) error
	TransferLeadership(ctx context.Context, teamID, fromUserID, toUserID uint) error
}

type CompetitionReader interface {
	FindByID(ctx context.Context, id uint) (domain.Competition, error)
}

type TeamService struct {
	repo     TeamRepository
	compRepo CompetitionReader
}

func NewTeamService(repo TeamRepository, compRepo CompetitionReader) *TeamService {
	return &TeamService{
		repo:     repo,
		compRepo: compRepo,
	}
}

// CreateTeam registers a new team with the caller as leader and returns it
// with a freshly issued join code.
func (s *TeamService) CreateTeam(ctx context.Context, competitionID uint, name string, leaderUserID uint) (domain.Team, error) {
	competition, err := s.compRepo.FindByID(ctx, competitionID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.compRepo.FindByID -> %w", err)
	}
	if !competition.RegistrationOpen(time.Now()) {
		return domain.Team{}, ErrRegistrationClosed
	}

	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := joincode.New()
		if err != nil {
			return domain.Team{}, fmt.Errorf("joincode.New -> %w", err)
		}

		team, err := s.repo.Create(ctx, domain.Team{
			CompetitionID: competitionID,
			Name:          name,
			JoinCode:      code,
			LeaderID:      leaderUserID,
		})
		if err != nil {
			if errors.Is(err, repository.ErrJoinCodeTaken) {
				continue
			}
			return domain.Team{}, fmt.Errorf("s.repo.Create -> %w", err)
		}

		return team, nil
	}

	return domain.Team{}, ErrCodeSpaceExhausted
}

// JoinTeam redeems a join code for a membership on the matching active team.
func (s *TeamService) JoinTeam(ctx context.Context, competitionID uint, userID uint, joinCode string) (domain.Membership, error) {
	competition, err := s.compRepo.FindByID(ctx, competitionID)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("s.compRepo.FindByID -> %w", err)
	}
	if !competition.RegistrationOpen(time.Now()) {
		return domain.Membership{}, ErrRegistrationClosed
	}

	membership, err := s.repo.Join(ctx, competitionID, joinCode, userID, competition.MaxTeamSize)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("s.repo.Join -> %w", err)
	}

	return membership, nil
}

func (s *TeamService) LeaveTeam(ctx context.Context, teamID, userID uint) error {
	return s.repo.Leave(ctx, teamID, userID)
}

func (s *TeamService) TransferLeadership(ctx context.Context, teamID, fromUserID, toUserID uint) error {
	return s.repo.TransferLeadership(ctx, teamID, fromUserID, toUserID)
}

func (s *TeamService) GetTeam(ctx context.Context, teamID uint) (domain.Team, error) {
	team, err := s.repo.FindByID(ctx, teamID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return team, nil
}
