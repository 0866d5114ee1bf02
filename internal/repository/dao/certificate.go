package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campushub/competition-api/internal/domain"
)

var (
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrCertificateExists   = errors.New("certificate already issued")
	ErrNotRanked           = errors.New("user is not on a ranked team")
)

type Certificate struct {
	ID             uint      `gorm:"primaryKey"`
	VerificationID string    `gorm:"size:36;not null;uniqueIndex"`
	UserID         uint      `gorm:"not null;index:uni_certificates_holder_role,unique"`
	CompetitionID  uint      `gorm:"not null;index:uni_certificates_holder_role,unique"`
	Role           string    `gorm:"size:16;not null;index:uni_certificates_holder_role,unique"`
	IssuedAt       time.Time `gorm:"not null"`
}

type CertificateDAO struct {
	db *gorm.DB
}

func NewCertificateDAO(db *gorm.DB) *CertificateDAO {
	return &CertificateDAO{
		db: db,
	}
}

// Insert mints a certificate. Uniqueness on (holder, competition, role)
// makes concurrent duplicate requests collapse onto the first insert.
func (d *CertificateDAO) Insert(ctx context.Context, certificate Certificate) (Certificate, error) {
	result := d.db.WithContext(ctx).Create(&certificate)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_certificates_holder_role") {
			return Certificate{}, ErrCertificateExists
		}

		return Certificate{}, result.Error
	}

	return certificate, nil
}

func (d *CertificateDAO) FindByHolder(ctx context.Context, userID, competitionID uint) (Certificate, error) {
	var certificate Certificate

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND competition_id = ?", userID, competitionID).
		First(&certificate)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Certificate{}, ErrCertificateNotFound
		}

		return Certificate{}, result.Error
	}

	return certificate, nil
}

func (d *CertificateDAO) FindByVerificationID(ctx context.Context, verificationID string) (Certificate, error) {
	var certificate Certificate

	result := d.db.WithContext(ctx).
		Where("verification_id = ?", verificationID).
		First(&certificate)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Certificate{}, ErrCertificateNotFound
		}

		return Certificate{}, result.Error
	}

	return certificate, nil
}

// FindRankedTeam resolves the leaderboard entry of the team on which the user
// holds an ACCEPTED membership for the competition.
func (d *CertificateDAO) FindRankedTeam(ctx context.Context, userID, competitionID uint) (LeaderboardEntry, error) {
	var entry LeaderboardEntry

	result := d.db.WithContext(ctx).
		Table("leaderboard_entries").
		Select("leaderboard_entries.*").
		Joins("JOIN memberships ON memberships.team_id = leaderboard_entries.team_id").
		Where("leaderboard_entries.competition_id = ? AND memberships.user_id = ? AND memberships.status = ?",
			competitionID, userID, string(domain.MembershipAccepted)).
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return LeaderboardEntry{}, ErrNotRanked
		}

		return LeaderboardEntry{}, result.Error
	}

	return entry, nil
}
