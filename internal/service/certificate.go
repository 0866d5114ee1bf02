package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/repository"
)

var (
	ErrCertificateNotFound = repository.ErrCertificateNotFound
	ErrResultsNotPublished = errors.New("competition results are not published")
	ErrNotEligible         = errors.New("user is not eligible for a certificate")
)

type CertificateRepository interface {
	Create(ctx context.Context, certificate domain.Certificate) (domain.Certificate, error)
	FindByHolder(ctx context.Context, userID, competitionID uint) (domain.Certificate, error)
	FindByVerificationID(ctx context.Context, verificationID string) (domain.Certificate, error)
	FindRankedTeam(ctx context.Context, userID, competitionID uint) (domain.LeaderboardEntry, error)
}

type CertificateService struct {
	repo     CertificateRepository
	compRepo CompetitionReader
}

func NewCertificateService(repo CertificateRepository, compRepo CompetitionReader) *CertificateService {
	return &CertificateService{
		repo:     repo,
		compRepo: compRepo,
	}
}

// IssueOrGet mints the caller's certificate on first request after publish
// and returns the previously minted one on every later call. Concurrent
// duplicate requests are collapsed by the (holder, competition, role)
// uniqueness constraint rather than by locking.
func (s *CertificateService) IssueOrGet(ctx context.Context, userID, competitionID uint) (domain.Certificate, error) {
	competition, err := s.compRepo.FindByID(ctx, competitionID)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("s.compRepo.FindByID -> %w", err)
	}
	if competition.State != domain.CompetitionPublished {
		return domain.Certificate{}, ErrResultsNotPublished
	}

	existing, err := s.repo.FindByHolder(ctx, userID, competitionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrCertificateNotFound) {
		return domain.Certificate{}, fmt.Errorf("s.repo.FindByHolder -> %w", err)
	}

	entry, err := s.repo.FindRankedTeam(ctx, userID, competitionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotRanked) {
			return domain.Certificate{}, ErrNotEligible
		}
		return domain.Certificate{}, fmt.Errorf("s.repo.FindRankedTeam -> %w", err)
	}

	certificate, err := s.repo.Create(ctx, domain.Certificate{
		VerificationID: uuid.NewString(),
		UserID:         userID,
		CompetitionID:  competitionID,
		Role:           domain.CertificateRoleForRank(entry.Rank),
		IssuedAt:       time.Now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrCertificateExists) {
			minted, findErr := s.repo.FindByHolder(ctx, userID, competitionID)
			if findErr != nil {
				return domain.Certificate{}, fmt.Errorf("s.repo.FindByHolder -> %w", findErr)
			}
			return minted, nil
		}
		return domain.Certificate{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return certificate, nil
}

// Verify resolves a public verification id to its certificate.
func (s *CertificateService) Verify(ctx context.Context, verificationID string) (domain.Certificate, error) {
	certificate, err := s.repo.FindByVerificationID(ctx, verificationID)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("s.repo.FindByVerificationID -> %w", err)
	}

	return certificate, nil
}
