package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campushub/competition-api/internal/domain"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type Submission struct {
	ID             uint      `gorm:"primaryKey"`
	TeamID         uint      `gorm:"not null;uniqueIndex"`
	Description    string    `gorm:"type:text"`
	RepoURL        string    `gorm:"size:500"`
	DemoURL        string    `gorm:"size:500"`
	ArtifactURL    string    `gorm:"size:500"`
	Status         string    `gorm:"size:16;not null;default:'DRAFT'"`
	LastModifiedBy uint      `gorm:"not null"`
	SubmittedAt    time.Time `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

type SubmissionDAO struct {
	db *gorm.DB
}

func NewSubmissionDAO(db *gorm.DB) *SubmissionDAO {
	return &SubmissionDAO{
		db: db,
	}
}

// Upsert writes the team's single submission as one INSERT ... ON CONFLICT
// statement, so two concurrent first writes cannot both take a create path.
// The first write sets submitted_at; the conflict branch leaves it untouched
// so the original submission time survives for tie-breaking.
func (d *SubmissionDAO) Upsert(ctx context.Context, submission Submission) (Submission, error) {
	submission.Status = string(domain.SubmissionSubmitted)
	submission.SubmittedAt = time.Now()

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "team_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"description", "repo_url", "demo_url", "artifact_url",
				"status", "last_modified_by", "updated_at",
			}),
		}).Create(&submission).Error
		if err != nil {
			return err
		}

		// Re-read so the conflict branch reports the stored id and
		// submitted_at rather than the values on the insert attempt.
		return tx.Where("team_id = ?", submission.TeamID).First(&submission).Error
	})
	if err != nil {
		return Submission{}, err
	}

	return submission, nil
}

func (d *SubmissionDAO) FindByTeamID(ctx context.Context, teamID uint) (Submission, error) {
	var submission Submission

	result := d.db.WithContext(ctx).Where("team_id = ?", teamID).First(&submission)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Submission{}, ErrSubmissionNotFound
		}

		return Submission{}, result.Error
	}

	return submission, nil
}

func (d *SubmissionDAO) FindByID(ctx context.Context, id uint) (Submission, error) {
	var submission Submission

	result := d.db.WithContext(ctx).First(&submission, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Submission{}, ErrSubmissionNotFound
		}

		return Submission{}, result.Error
	}

	return submission, nil
}
