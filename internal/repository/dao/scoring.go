package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campushub/competition-api/internal/domain"
)

var ErrScoreEntryNotFound = errors.New("score entry not found")

type ScoreEntry struct {
	ID           uint      `gorm:"primaryKey"`
	SubmissionID uint      `gorm:"not null;index:uni_scores_submission_judge,unique"`
	JudgeID      uint      `gorm:"not null;index:uni_scores_submission_judge,unique"`
	Total        float64   `gorm:"not null"`
	Breakdown    string    `gorm:"type:text;not null"` // criterion scores as JSON
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

type ScoringDAO struct {
	db *gorm.DB
}

func NewScoringDAO(db *gorm.DB) *ScoringDAO {
	return &ScoringDAO{
		db: db,
	}
}

// Upsert records a judge's score for a submission. A second call from the
// same judge replaces the prior entry rather than adding one. The competition
// row is locked FOR UPDATE and re-checked in the same transaction, so a score
// can never commit after the lock transition has frozen the snapshot.
func (d *ScoringDAO) Upsert(ctx context.Context, competitionID uint, entry ScoreEntry) (ScoreEntry, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var competition Competition
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&competition, competitionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCompetitionNotFound
			}
			return err
		}
		if competition.State != string(domain.CompetitionJudging) {
			return ErrNotJudging
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}, {Name: "judge_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"total", "breakdown", "updated_at"}),
		}).Create(&entry).Error
	})
	if err != nil {
		return ScoreEntry{}, err
	}

	return entry, nil
}

func (d *ScoringDAO) FindBySubmissionID(ctx context.Context, submissionID uint) ([]ScoreEntry, error) {
	var entries []ScoreEntry

	result := d.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("judge_id ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
