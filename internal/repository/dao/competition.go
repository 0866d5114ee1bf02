package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campushub/competition-api/internal/domain"
)

var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrCompetitionNotOpen  = errors.New("competition is not open")
	ErrNotJudging          = errors.New("competition is not in judging")
	ErrAlreadyLocked       = errors.New("competition results are already locked")
	ErrNotLocked           = errors.New("competition results are not locked")
)

type Competition struct {
	ID                   uint      `gorm:"primaryKey"`
	Name                 string    `gorm:"size:100;not null"`
	State                string    `gorm:"size:16;not null;default:'OPEN'"`
	MinTeamSize          int       `gorm:"not null;default:1"`
	MaxTeamSize          int       `gorm:"not null"`
	RegistrationDeadline time.Time `gorm:"not null"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

type LeaderboardEntry struct {
	ID            uint      `gorm:"primaryKey"`
	CompetitionID uint      `gorm:"not null;index:uni_leaderboard_competition_team,unique"`
	TeamID        uint      `gorm:"not null;index:uni_leaderboard_competition_team,unique"`
	Score         float64   `gorm:"not null"`
	Rank          int       `gorm:"not null"`
	ComputedAt    time.Time `gorm:"not null"`
}

type CompetitionDAO struct {
	db *gorm.DB
}

func NewCompetitionDAO(db *gorm.DB) *CompetitionDAO {
	return &CompetitionDAO{
		db: db,
	}
}

func (d *CompetitionDAO) Insert(ctx context.Context, competition Competition) (Competition, error) {
	result := d.db.WithContext(ctx).Create(&competition)
	if result.Error != nil {
		return Competition{}, result.Error
	}

	return competition, nil
}

func (d *CompetitionDAO) FindByID(ctx context.Context, id uint) (Competition, error) {
	var competition Competition

	result := d.db.WithContext(ctx).First(&competition, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Competition{}, ErrCompetitionNotFound
		}

		return Competition{}, result.Error
	}

	return competition, nil
}

// StartJudging moves OPEN -> JUDGING with a conditional update so that two
// concurrent organizer calls cannot both transition.
func (d *CompetitionDAO) StartJudging(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).
		Model(&Competition{}).
		Where("id = ? AND state = ?", id, string(domain.CompetitionOpen)).
		Update("state", string(domain.CompetitionJudging))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrCompetitionNotOpen
	}

	return nil
}

// LockAndRank transitions JUDGING -> LOCKED and computes the leaderboard
// snapshot in a single transaction. The conditional update doubles as the
// compare-and-set: a concurrent caller blocks on the competition row until
// the winner commits, then observes LOCKED and gets ErrAlreadyLocked.
func (d *CompetitionDAO) LockAndRank(ctx context.Context, competitionID uint) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Competition{}).
			Where("id = ? AND state = ?", competitionID, string(domain.CompetitionJudging)).
			Update("state", string(domain.CompetitionLocked))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var competition Competition
			if err := tx.First(&competition, competitionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCompetitionNotFound
				}
				return err
			}
			switch domain.CompetitionState(competition.State) {
			case domain.CompetitionLocked, domain.CompetitionPublished:
				return ErrAlreadyLocked
			default:
				return ErrNotJudging
			}
		}

		type submittedRow struct {
			TeamID       uint
			SubmissionID uint
			SubmittedAt  time.Time
		}
		var rows []submittedRow
		err := tx.Table("submissions").
			Select("submissions.team_id, submissions.id AS submission_id, submissions.submitted_at").
			Joins("JOIN teams ON teams.id = submissions.team_id").
			Where("teams.competition_id = ? AND teams.state = ? AND submissions.status = ?",
				competitionID, string(domain.TeamActive), string(domain.SubmissionSubmitted)).
			Scan(&rows).Error
		if err != nil {
			return err
		}

		submissionIDs := make([]uint, 0, len(rows))
		for _, row := range rows {
			submissionIDs = append(submissionIDs, row.SubmissionID)
		}

		totals := make(map[uint][]float64, len(rows))
		if len(submissionIDs) > 0 {
			var scores []ScoreEntry
			if err := tx.Where("submission_id IN ?", submissionIDs).Find(&scores).Error; err != nil {
				return err
			}
			for _, score := range scores {
				totals[score.SubmissionID] = append(totals[score.SubmissionID], score.Total)
			}
		}

		results := make([]domain.TeamResult, 0, len(rows))
		for _, row := range rows {
			results = append(results, domain.TeamResult{
				TeamID:      row.TeamID,
				SubmittedAt: row.SubmittedAt,
				JudgeTotals: totals[row.SubmissionID],
			})
		}

		ranked := domain.Rank(competitionID, results, time.Now())
		entries = make([]LeaderboardEntry, len(ranked))
		for i, e := range ranked {
			entries[i] = LeaderboardEntry{
				CompetitionID: e.CompetitionID,
				TeamID:        e.TeamID,
				Score:         e.Score,
				Rank:          e.Rank,
				ComputedAt:    e.ComputedAt,
			}
		}

		if len(entries) == 0 {
			return nil
		}

		return tx.Create(&entries).Error
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Publish moves LOCKED -> PUBLISHED, making the snapshot externally visible.
func (d *CompetitionDAO) Publish(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).
		Model(&Competition{}).
		Where("id = ? AND state = ?", id, string(domain.CompetitionLocked)).
		Update("state", string(domain.CompetitionPublished))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrNotLocked
	}

	return nil
}

func (d *CompetitionDAO) FindLeaderboard(ctx context.Context, competitionID uint) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry

	result := d.db.WithContext(ctx).
		Where("competition_id = ?", competitionID).
		Order("rank ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
