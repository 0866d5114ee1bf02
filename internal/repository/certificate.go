package repository

import (
	"context"
	"fmt"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/repository/dao"
)

var (
	ErrCertificateNotFound = dao.ErrCertificateNotFound
	ErrCertificateExists   = dao.ErrCertificateExists
	ErrNotRanked           = dao.ErrNotRanked
)

type CertificateDAO interface {
	Insert(ctx context.Context, certificate dao.Certificate) (dao.Certificate, error)
	FindByHolder(ctx context.Context, userID, competitionID uint) (dao.Certificate, error)
	FindByVerificationID(ctx context.Context, verificationID string) (dao.Certificate, error)
	FindRankedTeam(ctx context.Context, userID, competitionID uint) (dao.LeaderboardEntry, error)
}

type CertificateRepository struct {
	dao CertificateDAO
}

func NewCertificateRepository(dao CertificateDAO) *CertificateRepository {
	return &CertificateRepository{
		dao: dao,
	}
}

func (r *CertificateRepository) Create(ctx context.Context, certificate domain.Certificate) (domain.Certificate, error) {
	created, err := r.dao.Insert(ctx, dao.Certificate{
		VerificationID: certificate.VerificationID,
		UserID:         certificate.UserID,
		CompetitionID:  certificate.CompetitionID,
		Role:           string(certificate.Role),
		IssuedAt:       certificate.IssuedAt,
	})
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CertificateRepository) FindByHolder(ctx context.Context, userID, competitionID uint) (domain.Certificate, error) {
	found, err := r.dao.FindByHolder(ctx, userID, competitionID)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("r.dao.FindByHolder -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CertificateRepository) FindByVerificationID(ctx context.Context, verificationID string) (domain.Certificate, error) {
	found, err := r.dao.FindByVerificationID(ctx, verificationID)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("r.dao.FindByVerificationID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CertificateRepository) FindRankedTeam(ctx context.Context, userID, competitionID uint) (domain.LeaderboardEntry, error) {
	entry, err := r.dao.FindRankedTeam(ctx, userID, competitionID)
	if err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("r.dao.FindRankedTeam -> %w", err)
	}

	return domain.LeaderboardEntry{
		CompetitionID: entry.CompetitionID,
		TeamID:        entry.TeamID,
		Score:         entry.Score,
		Rank:          entry.Rank,
		ComputedAt:    entry.ComputedAt,
	}, nil
}

func (r *CertificateRepository) daoToDomain(c dao.Certificate) domain.Certificate {
	return domain.Certificate{
		ID:             c.ID,
		VerificationID: c.VerificationID,
		UserID:         c.UserID,
		CompetitionID:  c.CompetitionID,
		Role:           domain.CertificateRole(c.Role),
		IssuedAt:       c.IssuedAt,
	}
}
