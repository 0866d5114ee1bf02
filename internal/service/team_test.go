package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/repository"
)

func openCompetition(t *testing.T, comps *fakeCompetitionRepo, maxTeamSize int) domain.Competition {
	t.Helper()

	return comps.add(domain.Competition{
		Name:                 "Spring Hackathon",
		State:                domain.CompetitionOpen,
		MinTeamSize:          1,
		MaxTeamSize:          maxTeamSize,
		RegistrationDeadline: time.Now().Add(24 * time.Hour),
	})
}

func TestTeamService_CreateTeam(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)
	competition := openCompetition(t, comps, 4)

	team, err := svc.CreateTeam(context.Background(), competition.ID, "Gophers", 1)
	require.NoError(t, err)
	assert.NotZero(t, team.ID)
	assert.Len(t, team.JoinCode, 8)

	got, err := svc.GetTeam(context.Background(), team.ID)
	require.NoError(t, err)
	require.Len(t, got.Roster, 1)
	assert.Equal(t, domain.RoleLeader, got.Roster[0].Role)
	assert.Equal(t, uint(1), got.LeaderID)
}

func TestTeamService_CreateTeam_DuplicateName(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)
	competition := openCompetition(t, comps, 4)

	_, err := svc.CreateTeam(context.Background(), competition.ID, "Gophers", 1)
	require.NoError(t, err)

	_, err = svc.CreateTeam(context.Background(), competition.ID, "Gophers", 2)
	assert.ErrorIs(t, err, ErrDuplicateTeamName)
}

func TestTeamService_CreateTeam_RegistrationClosed(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)

	tests := []struct {
		name        string
		competition domain.Competition
	}{
		{
			name: "deadline passed",
			competition: comps.add(domain.Competition{
				State:                domain.CompetitionOpen,
				MaxTeamSize:          4,
				RegistrationDeadline: time.Now().Add(-time.Hour),
			}),
		},
		{
			name: "judging started",
			competition: comps.add(domain.Competition{
				State:                domain.CompetitionJudging,
				MaxTeamSize:          4,
				RegistrationDeadline: time.Now().Add(time.Hour),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTeam(context.Background(), tt.competition.ID, "Latecomers", 1)
			assert.ErrorIs(t, err, ErrRegistrationClosed)
		})
	}
}

func TestTeamService_CreateTeam_LeaderAlreadyOnTeam(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)
	competition := openCompetition(t, comps, 4)

	_, err := svc.CreateTeam(context.Background(), competition.ID, "Gophers", 1)
	require.NoError(t, err)

	_, err = svc.CreateTeam(context.Background(), competition.ID, "Rustaceans", 1)
	assert.ErrorIs(t, err, ErrAlreadyOnTeam)
}

// collidingTeamRepo reports every join code as taken.
type collidingTeamRepo struct {
	*fakeTeamRepo
	attempts int
}

func (r *collidingTeamRepo) Create(_ context.Context, _ domain.Team) (domain.Team, error) {
	r.attempts++
	return domain.Team{}, repository.ErrJoinCodeTaken
}

func TestTeamService_CreateTeam_CodeSpaceExhausted(t *testing.T) {
	comps := newFakeCompetitionRepo()
	repo := &collidingTeamRepo{fakeTeamRepo: newFakeTeamRepo()}
	svc := NewTeamService(repo, comps)
	competition := openCompetition(t, comps, 4)

	_, err := svc.CreateTeam(context.Background(), competition.ID, "Gophers", 1)
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
	assert.Equal(t, joinCodeAttempts, repo.attempts)
}

func TestTeamService_JoinTeam(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)
	competition := openCompetition(t, comps, 4)

	team, err := svc.CreateTeam(context.Background(), competition.ID, "Gophers", 1)
	require.NoError(t, err)

	membership, err := svc.JoinTeam(context.Background(), competition.ID, 2, team.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, team.ID, membership.TeamID)
	assert.Equal(t, domain.RoleMember, membership.Role)
	assert.Equal(t, domain.MembershipAccepted, membership.Status)
}

func TestTeamService_JoinTeam_Errors(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)
	competition := openCompetition(t, comps, 2)

	team, err := svc.CreateTeam(context.Background(), competition.ID, "Gophers", 1)
	require.NoError(t, err)

	_, err = svc.JoinTeam(context.Background(), competition.ID, 2, "WRONGCDE")
	assert.ErrorIs(t, err, ErrInvalidJoinCode)

	_, err = svc.JoinTeam(context.Background(), competition.ID, 2, team.JoinCode)
	require.NoError(t, err)

	// Same user joining twice.
	_, err = svc.JoinTeam(context.Background(), competition.ID, 2, team.JoinCode)
	assert.ErrorIs(t, err, ErrAlreadyOnTeam)

	// Team is at max size 2 now.
	_, err = svc.JoinTeam(context.Background(), competition.ID, 3, team.JoinCode)
	assert.ErrorIs(t, err, ErrTeamFull)
}

func TestTeamService_JoinTeam_ConcurrentNeverExceedsCapacity(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)

	const maxSize = 4
	competition := openCompetition(t, comps, maxSize)

	team, err := svc.CreateTeam(context.Background(), competition.ID, "Gophers", 1)
	require.NoError(t, err)

	const joiners = 20
	var wg sync.WaitGroup
	errs := make([]error, joiners)

	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.JoinTeam(context.Background(), competition.ID, uint(100+i), team.JoinCode)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrTeamFull)
		}
	}
	// Leader occupies one slot.
	assert.Equal(t, maxSize-1, succeeded)

	got, err := svc.GetTeam(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Len(t, got.Roster, maxSize)
}

func TestTeamService_LeaveTeam(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)
	competition := openCompetition(t, comps, 4)

	team, err := svc.CreateTeam(context.Background(), competition.ID, "Gophers", 1)
	require.NoError(t, err)
	_, err = svc.JoinTeam(context.Background(), competition.ID, 2, team.JoinCode)
	require.NoError(t, err)

	// Leader cannot leave while members remain.
	err = svc.LeaveTeam(context.Background(), team.ID, 1)
	assert.ErrorIs(t, err, ErrLeaderCannotLeave)

	// A non-member cannot leave.
	err = svc.LeaveTeam(context.Background(), team.ID, 99)
	assert.ErrorIs(t, err, ErrNotOnTeam)

	err = svc.LeaveTeam(context.Background(), team.ID, 2)
	require.NoError(t, err)

	// Last-member leader leaving withdraws the team.
	err = svc.LeaveTeam(context.Background(), team.ID, 1)
	require.NoError(t, err)

	got, err := svc.GetTeam(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TeamWithdrawn, got.State)
}

func TestTeamService_LeaveFreesCapacityAndMembership(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)
	competition := openCompetition(t, comps, 2)

	teamA, err := svc.CreateTeam(context.Background(), competition.ID, "Alpha", 1)
	require.NoError(t, err)
	teamB, err := svc.CreateTeam(context.Background(), competition.ID, "Beta", 2)
	require.NoError(t, err)

	_, err = svc.JoinTeam(context.Background(), competition.ID, 3, teamA.JoinCode)
	require.NoError(t, err)

	// User 3 is on team A, so team B is off limits.
	_, err = svc.JoinTeam(context.Background(), competition.ID, 3, teamB.JoinCode)
	assert.ErrorIs(t, err, ErrAlreadyOnTeam)

	require.NoError(t, svc.LeaveTeam(context.Background(), teamA.ID, 3))

	// After leaving, both the old slot and the user are free again.
	_, err = svc.JoinTeam(context.Background(), competition.ID, 3, teamB.JoinCode)
	require.NoError(t, err)
	_, err = svc.JoinTeam(context.Background(), competition.ID, 4, teamA.JoinCode)
	require.NoError(t, err)
}

func TestTeamService_JoinTeam_WithdrawnTeamCode(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)
	competition := openCompetition(t, comps, 4)

	team, err := svc.CreateTeam(context.Background(), competition.ID, "Alpha", 1)
	require.NoError(t, err)

	// The sole leader leaving withdraws the team.
	require.NoError(t, svc.LeaveTeam(context.Background(), team.ID, 1))

	got, err := svc.GetTeam(context.Background(), team.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TeamWithdrawn, got.State)

	// A withdrawn team's code no longer resolves.
	_, err = svc.JoinTeam(context.Background(), competition.ID, 2, team.JoinCode)
	assert.ErrorIs(t, err, ErrInvalidJoinCode)
}

func TestTeamService_TransferLeadership(t *testing.T) {
	comps := newFakeCompetitionRepo()
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, comps)
	competition := openCompetition(t, comps, 4)

	team, err := svc.CreateTeam(context.Background(), competition.ID, "Gophers", 1)
	require.NoError(t, err)
	_, err = svc.JoinTeam(context.Background(), competition.ID, 2, team.JoinCode)
	require.NoError(t, err)

	err = svc.TransferLeadership(context.Background(), team.ID, 2, 1)
	assert.ErrorIs(t, err, ErrNotLeader)

	err = svc.TransferLeadership(context.Background(), team.ID, 1, 99)
	assert.ErrorIs(t, err, ErrNotOnTeam)

	require.NoError(t, svc.TransferLeadership(context.Background(), team.ID, 1, 2))

	got, err := svc.GetTeam(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), got.LeaderID)

	// The old leader is now a plain member and may leave.
	require.NoError(t, svc.LeaveTeam(context.Background(), team.ID, 1))
}
