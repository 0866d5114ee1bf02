package service

import (
	"context"
	"sync"
	"time"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/repository"
)

// The fakes below mirror the Postgres-backed repositories closely enough for
// service-level tests: same sentinel errors, same uniqueness rules, and
// mutex-serialized writes so concurrent callers behave like transactions.

type fakeCompetitionRepo struct {
	mu     sync.Mutex
	nextID uint
	comps  map[uint]domain.Competition

	// results feeds the ranking computed at lock time.
	results map[uint][]domain.TeamResult
	boards  map[uint][]domain.LeaderboardEntry
}

func newFakeCompetitionRepo() *fakeCompetitionRepo {
	return &fakeCompetitionRepo{
		comps:   map[uint]domain.Competition{},
		results: map[uint][]domain.TeamResult{},
		boards:  map[uint][]domain.LeaderboardEntry{},
	}
}

func (f *fakeCompetitionRepo) add(c domain.Competition) domain.Competition {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	c.ID = f.nextID
	f.comps[c.ID] = c

	return c
}

func (f *fakeCompetitionRepo) setResults(competitionID uint, results []domain.TeamResult) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.results[competitionID] = results
}

func (f *fakeCompetitionRepo) Create(_ context.Context, c domain.Competition) (domain.Competition, error) {
	return f.add(c), nil
}

func (f *fakeCompetitionRepo) FindByID(_ context.Context, id uint) (domain.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.comps[id]
	if !ok {
		return domain.Competition{}, repository.ErrCompetitionNotFound
	}

	return c, nil
}

func (f *fakeCompetitionRepo) StartJudging(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.comps[id]
	if !ok {
		return repository.ErrCompetitionNotFound
	}
	if c.State != domain.CompetitionOpen {
		return repository.ErrCompetitionNotOpen
	}

	c.State = domain.CompetitionJudging
	f.comps[id] = c

	return nil
}

func (f *fakeCompetitionRepo) LockAndRank(_ context.Context, competitionID uint) ([]domain.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.comps[competitionID]
	if !ok {
		return nil, repository.ErrCompetitionNotFound
	}

	switch c.State {
	case domain.CompetitionJudging:
	case domain.CompetitionLocked, domain.CompetitionPublished:
		return nil, repository.ErrAlreadyLocked
	default:
		return nil, repository.ErrNotJudging
	}

	entries := domain.Rank(competitionID, f.results[competitionID], time.Now())
	f.boards[competitionID] = entries

	c.State = domain.CompetitionLocked
	f.comps[competitionID] = c

	return entries, nil
}

func (f *fakeCompetitionRepo) Publish(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.comps[id]
	if !ok {
		return repository.ErrCompetitionNotFound
	}
	if c.State != domain.CompetitionLocked {
		return repository.ErrNotLocked
	}

	c.State = domain.CompetitionPublished
	f.comps[id] = c

	return nil
}

func (f *fakeCompetitionRepo) FindLeaderboard(_ context.Context, competitionID uint) ([]domain.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.boards[competitionID], nil
}

type fakeTeamRepo struct {
	mu               sync.Mutex
	nextTeamID       uint
	nextMembershipID uint
	teams            map[uint]domain.Team
	memberships      []domain.Membership
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams: map[uint]domain.Team{},
	}
}

func (f *fakeTeamRepo) hasActiveMembership(competitionID, userID uint) bool {
	for _, m := range f.memberships {
		if m.CompetitionID == competitionID && m.UserID == userID && m.Status == domain.MembershipAccepted {
			return true
		}
	}

	return false
}

func (f *fakeTeamRepo) Create(_ context.Context, team domain.Team) (domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.teams {
		if t.CompetitionID != team.CompetitionID {
			continue
		}
		if t.Name == team.Name {
			return domain.Team{}, repository.ErrDuplicateTeamName
		}
		if t.JoinCode == team.JoinCode {
			return domain.Team{}, repository.ErrJoinCodeTaken
		}
	}
	if f.hasActiveMembership(team.CompetitionID, team.LeaderID) {
		return domain.Team{}, repository.ErrAlreadyOnTeam
	}

	f.nextTeamID++
	team.ID = f.nextTeamID
	team.State = domain.TeamActive
	f.teams[team.ID] = team

	f.nextMembershipID++
	f.memberships = append(f.memberships, domain.Membership{
		ID:            f.nextMembershipID,
		TeamID:        team.ID,
		CompetitionID: team.CompetitionID,
		UserID:        team.LeaderID,
		Role:          domain.RoleLeader,
		Status:        domain.MembershipAccepted,
		JoinedAt:      time.Now(),
	})

	return team, nil
}

func (f *fakeTeamRepo) FindByID(_ context.Context, id uint) (domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	team, ok := f.teams[id]
	if !ok {
		return domain.Team{}, repository.ErrTeamNotFound
	}

	for _, m := range f.memberships {
		if m.TeamID == id && m.Status == domain.MembershipAccepted {
			team.Roster = append(team.Roster, m)
		}
	}

	return team, nil
}

func (f *fakeTeamRepo) Join(_ context.Context, competitionID uint, joinCode string, userID uint, maxSize int) (domain.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var team domain.Team
	found := false
	for _, t := range f.teams {
		if t.CompetitionID == competitionID && t.JoinCode == joinCode && t.State == domain.TeamActive {
			team = t
			found = true
			break
		}
	}
	if !found {
		return domain.Membership{}, repository.ErrInvalidJoinCode
	}

	if f.hasActiveMembership(competitionID, userID) {
		return domain.Membership{}, repository.ErrAlreadyOnTeam
	}

	size := 0
	for _, m := range f.memberships {
		if m.TeamID == team.ID && m.Status == domain.MembershipAccepted {
			size++
		}
	}
	if size >= maxSize {
		return domain.Membership{}, repository.ErrTeamFull
	}

	f.nextMembershipID++
	membership := domain.Membership{
		ID:            f.nextMembershipID,
		TeamID:        team.ID,
		CompetitionID: competitionID,
		UserID:        userID,
		Role:          domain.RoleMember,
		Status:        domain.MembershipAccepted,
		JoinedAt:      time.Now(),
	}
	f.memberships = append(f.memberships, membership)

	return membership, nil
}

func (f *fakeTeamRepo) Leave(_ context.Context, teamID, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	team, ok := f.teams[teamID]
	if !ok {
		return repository.ErrTeamNotFound
	}

	idx := -1
	others := 0
	for i, m := range f.memberships {
		if m.TeamID != teamID || m.Status != domain.MembershipAccepted {
			continue
		}
		if m.UserID == userID {
			idx = i
		} else {
			others++
		}
	}
	if idx == -1 {
		return repository.ErrNotOnTeam
	}

	if team.LeaderID == userID {
		if others > 0 {
			return repository.ErrLeaderCannotLeave
		}
		team.State = domain.TeamWithdrawn
		f.teams[teamID] = team
	}

	f.memberships = append(f.memberships[:idx], f.memberships[idx+1:]...)

	return nil
}

func (f *fakeTeamRepo) TransferLeadership(_ context.Context, teamID, fromUserID, toUserID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	team, ok := f.teams[teamID]
	if !ok {
		return repository.ErrTeamNotFound
	}
	if team.LeaderID != fromUserID {
		return repository.ErrNotLeader
	}

	toIdx := -1
	for i, m := range f.memberships {
		if m.TeamID == teamID && m.UserID == toUserID && m.Status == domain.MembershipAccepted {
			toIdx = i
			break
		}
	}
	if toIdx == -1 {
		return repository.ErrNotOnTeam
	}

	for i, m := range f.memberships {
		if m.TeamID != teamID {
			continue
		}
		switch m.UserID {
		case fromUserID:
			f.memberships[i].Role = domain.RoleMember
		case toUserID:
			f.memberships[i].Role = domain.RoleLeader
		}
	}

	team.LeaderID = toUserID
	f.teams[teamID] = team

	return nil
}

type fakeSubmissionRepo struct {
	mu     sync.Mutex
	nextID uint
	byTeam map[uint]domain.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		byTeam: map[uint]domain.Submission{},
	}
}

func (f *fakeSubmissionRepo) Upsert(_ context.Context, teamID, actorID uint, fields domain.SubmissionFields) (domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.byTeam[teamID]
	if !ok {
		f.nextID++
		sub = domain.Submission{
			ID:          f.nextID,
			TeamID:      teamID,
			Status:      domain.SubmissionSubmitted,
			SubmittedAt: time.Now(),
		}
	}

	sub.Description = fields.Description
	sub.RepoURL = fields.RepoURL
	sub.DemoURL = fields.DemoURL
	sub.ArtifactURL = fields.ArtifactURL
	sub.LastModifiedBy = actorID
	sub.UpdatedAt = time.Now()
	f.byTeam[teamID] = sub

	return sub, nil
}

func (f *fakeSubmissionRepo) FindByTeamID(_ context.Context, teamID uint) (domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.byTeam[teamID]
	if !ok {
		return domain.Submission{}, repository.ErrSubmissionNotFound
	}

	return sub, nil
}

func (f *fakeSubmissionRepo) FindByID(_ context.Context, id uint) (domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.byTeam {
		if sub.ID == id {
			return sub, nil
		}
	}

	return domain.Submission{}, repository.ErrSubmissionNotFound
}

type scoreKey struct {
	submissionID uint
	judgeID      uint
}

type fakeScoringRepo struct {
	mu      sync.Mutex
	nextID  uint
	comps   *fakeCompetitionRepo
	entries map[scoreKey]domain.ScoreEntry
}

func newFakeScoringRepo(comps *fakeCompetitionRepo) *fakeScoringRepo {
	return &fakeScoringRepo{
		comps:   comps,
		entries: map[scoreKey]domain.ScoreEntry{},
	}
}

// Upsert re-checks the competition state before writing, like the real
// repository does inside its transaction.
func (f *fakeScoringRepo) Upsert(ctx context.Context, competitionID uint, entry domain.ScoreEntry) (domain.ScoreEntry, error) {
	competition, err := f.comps.FindByID(ctx, competitionID)
	if err != nil {
		return domain.ScoreEntry{}, err
	}
	if competition.State != domain.CompetitionJudging {
		return domain.ScoreEntry{}, repository.ErrNotJudging
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := scoreKey{submissionID: entry.SubmissionID, judgeID: entry.JudgeID}
	if existing, ok := f.entries[key]; ok {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	} else {
		f.nextID++
		entry.ID = f.nextID
		entry.CreatedAt = time.Now()
	}
	entry.UpdatedAt = time.Now()
	f.entries[key] = entry

	return entry, nil
}

func (f *fakeScoringRepo) FindBySubmissionID(_ context.Context, submissionID uint) ([]domain.ScoreEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.ScoreEntry
	for _, e := range f.entries {
		if e.SubmissionID == submissionID {
			out = append(out, e)
		}
	}

	return out, nil
}

type rankKey struct {
	userID        uint
	competitionID uint
}

type fakeCertificateRepo struct {
	mu     sync.Mutex
	nextID uint
	certs  []domain.Certificate

	// ranked maps a user to the final leaderboard entry of the team they
	// belonged to.
	ranked map[rankKey]domain.LeaderboardEntry
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{
		ranked: map[rankKey]domain.LeaderboardEntry{},
	}
}

func (f *fakeCertificateRepo) setRanked(userID, competitionID uint, entry domain.LeaderboardEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ranked[rankKey{userID: userID, competitionID: competitionID}] = entry
}

func (f *fakeCertificateRepo) Create(_ context.Context, certificate domain.Certificate) (domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.certs {
		if c.UserID == certificate.UserID && c.CompetitionID == certificate.CompetitionID {
			return domain.Certificate{}, repository.ErrCertificateExists
		}
	}

	f.nextID++
	certificate.ID = f.nextID
	f.certs = append(f.certs, certificate)

	return certificate, nil
}

func (f *fakeCertificateRepo) FindByHolder(_ context.Context, userID, competitionID uint) (domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.certs {
		if c.UserID == userID && c.CompetitionID == competitionID {
			return c, nil
		}
	}

	return domain.Certificate{}, repository.ErrCertificateNotFound
}

func (f *fakeCertificateRepo) FindByVerificationID(_ context.Context, verificationID string) (domain.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.certs {
		if c.VerificationID == verificationID {
			return c, nil
		}
	}

	return domain.Certificate{}, repository.ErrCertificateNotFound
}

func (f *fakeCertificateRepo) FindRankedTeam(_ context.Context, userID, competitionID uint) (domain.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.ranked[rankKey{userID: userID, competitionID: competitionID}]
	if !ok {
		return domain.LeaderboardEntry{}, repository.ErrNotRanked
	}

	return entry, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: map[uint]domain.User{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}

	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user

	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}
