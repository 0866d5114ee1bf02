package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/competition-api/internal/domain"
)

func publishedCompetition(comps *fakeCompetitionRepo) domain.Competition {
	return comps.add(domain.Competition{
		Name:                 "Spring Hackathon",
		State:                domain.CompetitionPublished,
		RegistrationDeadline: time.Now().Add(-48 * time.Hour),
	})
}

func TestCertificateService_IssueOrGet(t *testing.T) {
	comps := newFakeCompetitionRepo()
	certs := newFakeCertificateRepo()
	svc := NewCertificateService(certs, comps)
	competition := publishedCompetition(comps)

	tests := []struct {
		name     string
		userID   uint
		rank     int
		wantRole domain.CertificateRole
	}{
		{name: "winner", userID: 1, rank: 1, wantRole: domain.CertificateWinner},
		{name: "second is runner-up", userID: 2, rank: 2, wantRole: domain.CertificateRunnerUp},
		{name: "third is runner-up", userID: 3, rank: 3, wantRole: domain.CertificateRunnerUp},
		{name: "fourth is participant", userID: 4, rank: 4, wantRole: domain.CertificateParticipant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			certs.setRanked(tt.userID, competition.ID, domain.LeaderboardEntry{
				CompetitionID: competition.ID,
				TeamID:        tt.userID * 10,
				Rank:          tt.rank,
			})

			certificate, err := svc.IssueOrGet(context.Background(), tt.userID, competition.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, certificate.Role)
			assert.NotEmpty(t, certificate.VerificationID)
		})
	}
}

func TestCertificateService_IssueOrGet_Idempotent(t *testing.T) {
	comps := newFakeCompetitionRepo()
	certs := newFakeCertificateRepo()
	svc := NewCertificateService(certs, comps)
	competition := publishedCompetition(comps)

	certs.setRanked(1, competition.ID, domain.LeaderboardEntry{Rank: 1})

	first, err := svc.IssueOrGet(context.Background(), 1, competition.ID)
	require.NoError(t, err)

	second, err := svc.IssueOrGet(context.Background(), 1, competition.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCertificateService_IssueOrGet_ConcurrentSingleMint(t *testing.T) {
	comps := newFakeCompetitionRepo()
	certs := newFakeCertificateRepo()
	svc := NewCertificateService(certs, comps)
	competition := publishedCompetition(comps)

	certs.setRanked(1, competition.ID, domain.LeaderboardEntry{Rank: 2})

	const callers = 10
	var wg sync.WaitGroup
	got := make([]domain.Certificate, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := svc.IssueOrGet(context.Background(), 1, competition.ID)
			assert.NoError(t, err)
			got[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range got[1:] {
		assert.Equal(t, got[0], c)
	}
}

func TestCertificateService_IssueOrGet_Errors(t *testing.T) {
	comps := newFakeCompetitionRepo()
	certs := newFakeCertificateRepo()
	svc := NewCertificateService(certs, comps)

	locked := comps.add(domain.Competition{
		State:                domain.CompetitionLocked,
		RegistrationDeadline: time.Now().Add(-time.Hour),
	})

	_, err := svc.IssueOrGet(context.Background(), 1, locked.ID)
	assert.ErrorIs(t, err, ErrResultsNotPublished)

	published := publishedCompetition(comps)

	// No ranked team on record for this user.
	_, err = svc.IssueOrGet(context.Background(), 1, published.ID)
	assert.ErrorIs(t, err, ErrNotEligible)

	_, err = svc.IssueOrGet(context.Background(), 1, 9999)
	assert.ErrorIs(t, err, ErrCompetitionNotFound)
}

func TestCertificateService_Verify(t *testing.T) {
	comps := newFakeCompetitionRepo()
	certs := newFakeCertificateRepo()
	svc := NewCertificateService(certs, comps)
	competition := publishedCompetition(comps)

	certs.setRanked(1, competition.ID, domain.LeaderboardEntry{Rank: 1})

	minted, err := svc.IssueOrGet(context.Background(), 1, competition.ID)
	require.NoError(t, err)

	got, err := svc.Verify(context.Background(), minted.VerificationID)
	require.NoError(t, err)
	assert.Equal(t, minted, got)

	_, err = svc.Verify(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrCertificateNotFound)
}
