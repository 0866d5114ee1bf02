package repository

import (
	"context"
	"fmt"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/repository/dao"
)

var (
	ErrTeamNotFound      = dao.ErrTeamNotFound
	ErrDuplicateTeamName = dao.ErrDuplicateTeamName
	ErrJoinCodeTaken     = dao.ErrJoinCodeTaken
	ErrInvalidJoinCode   = dao.ErrInvalidJoinCode
	ErrTeamFull          = dao.ErrTeamFull
	ErrAlreadyOnTeam     = dao.ErrAlreadyOnTeam
	ErrNotOnTeam         = dao.ErrNotOnTeam
	ErrLeaderCannotLeave = dao.ErrLeaderCannotLeave
	ErrNotLeader         = dao.ErrNotLeader
)

type TeamDAO interface {
	Insert(ctx context.Context, team dao.Team) (dao.Team, error)
	FindByID(ctx context.Context, id uint) (dao.Team, error)
	Join(ctx context.Context, competitionID uint, joinCode string, userID uint, maxSize int) (dao.Membership, error)
	Leave(ctx context.Context, teamID, userID uint) error
	TransferLeadership(ctx context.Context, teamID, fromUserID, toUserID uint) error
}

type TeamRepository struct {
	dao TeamDAO
}

func NewTeamRepository(dao TeamDAO) *TeamRepository {
	return &TeamRepository{
		dao: dao,
	}
}

func (r *TeamRepository) Create(ctx context.Context, team domain.Team) (domain.Team, error) {
	created, err := r.dao.Insert(ctx, dao.Team{
		CompetitionID: team.CompetitionID,
		Name:          team.Name,
		JoinCode:      team.JoinCode,
		State:         string(domain.TeamActive),
		LeaderID:      team.LeaderID,
	})
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TeamRepository) FindByID(ctx context.Context, id uint) (domain.Team, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TeamRepository) Join(ctx context.Context, competitionID uint, joinCode string, userID uint, maxSize int) (domain.Membership, error) {
	membership, err := r.dao.Join(ctx, competitionID, joinCode, userID, maxSize)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("r.dao.Join -> %w", err)
	}

	return r.membershipDaoToDomain(membership), nil
}

func (r *TeamRepository) Leave(ctx context.Context, teamID, userID uint) error {
	return r.dao.Leave(ctx, teamID, userID)
}

func (r *TeamRepository) TransferLeadership(ctx context.Context, teamID, fromUserID, toUserID uint) error {
	return r.dao.TransferLeadership(ctx, teamID, fromUserID, toUserID)
}

func (r *TeamRepository) daoToDomain(t dao.Team) domain.Team {
	team := domain.Team{
		ID:            t.ID,
		CompetitionID: t.CompetitionID,
		Name:          t.Name,
		JoinCode:      t.JoinCode,
		State:         domain.TeamState(t.State),
		LeaderID:      t.LeaderID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}

	for _, m := range t.Memberships {
		team.Roster = append(team.Roster, r.membershipDaoToDomain(m))
	}

	return team
}

func (r *TeamRepository) membershipDaoToDomain(m dao.Membership) domain.Membership {
	return domain.Membership{
		ID:            m.ID,
		TeamID:        m.TeamID,
		CompetitionID: m.CompetitionID,
		UserID:        m.UserID,
		Role:          domain.MembershipRole(m.Role),
		Status:        domain.MembershipStatus(m.Status),
		JoinedAt:      m.JoinedAt,
	}
}
