package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campushub/competition-api/internal/domain"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrDuplicateTeamName = errors.New("team name is already taken in this competition")
	ErrJoinCodeTaken     = errors.New("join code is already taken in this competition")
	ErrInvalidJoinCode   = errors.New("join code is invalid")
	ErrTeamFull          = errors.New("team is full")
	ErrAlreadyOnTeam     = errors.New("user is already on a team in this competition")
	ErrNotOnTeam         = errors.New("user is not on this team")
	ErrLeaderCannotLeave = errors.New("leader cannot leave while the team has other members")
	ErrNotLeader         = errors.New("user is not the team leader")
)

type Team struct {
	ID            uint      `gorm:"primaryKey"`
	CompetitionID uint      `gorm:"not null;index:uni_teams_competition_name,unique;index:uni_teams_competition_code,unique"`
	Name          string    `gorm:"size:100;not null;index:uni_teams_competition_name,unique"`
	JoinCode      string    `gorm:"size:8;not null;index:uni_teams_competition_code,unique"`
	State         string    `gorm:"size:16;not null;default:'ACTIVE'"`
	LeaderID      uint      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`

	Memberships []Membership `gorm:"foreignKey:TeamID"`
}

type Membership struct {
	ID            uint      `gorm:"primaryKey"`
	TeamID        uint      `gorm:"not null;index"`
	CompetitionID uint      `gorm:"not null"`
	UserID        uint      `gorm:"not null"`
	Role          string    `gorm:"size:16;not null"`
	Status        string    `gorm:"size:16;not null"`
	JoinedAt      time.Time `gorm:"not null"`
}

type TeamDAO struct {
	db *gorm.DB
}

func NewTeamDAO(db *gorm.DB) *TeamDAO {
	return &TeamDAO{
		db: db,
	}
}

// Insert creates the team and its leader membership in one transaction. The
// leader membership insert trips uni_memberships_active_user when the user is
// already on an active team in the competition, rolling back the team row.
func (d *TeamDAO) Insert(ctx context.Context, team Team) (Team, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			switch {
			case isUniqueViolation(err, "uni_teams_competition_name"):
				return ErrDuplicateTeamName
			case isUniqueViolation(err, "uni_teams_competition_code"):
				return ErrJoinCodeTaken
			}
			return err
		}

		membership := Membership{
			TeamID:        team.ID,
			CompetitionID: team.CompetitionID,
			UserID:        team.LeaderID,
			Role:          string(domain.RoleLeader),
			Status:        string(domain.MembershipAccepted),
			JoinedAt:      time.Now(),
		}
		if err := tx.Create(&membership).Error; err != nil {
			if isUniqueViolation(err, "uni_memberships_active_user") {
				return ErrAlreadyOnTeam
			}
			return err
		}

		team.Memberships = []Membership{membership}

		return nil
	})
	if err != nil {
		return Team{}, err
	}

	return team, nil
}

func (d *TeamDAO) FindByID(ctx context.Context, id uint) (Team, error) {
	var team Team

	result := d.db.WithContext(ctx).Preload("Memberships").First(&team, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamNotFound
		}

		return Team{}, result.Error
	}

	return team, nil
}

// Join redeems a join code. The team row is locked FOR UPDATE so that the
// capacity count and the membership insert form one atomic unit; two
// concurrent joins cannot both observe the last free slot.
func (d *TeamDAO) Join(ctx context.Context, competitionID uint, joinCode string, userID uint, maxSize int) (Membership, error) {
	var membership Membership

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team Team
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("competition_id = ? AND join_code = ? AND state = ?",
				competitionID, joinCode, string(domain.TeamActive)).
			First(&team).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidJoinCode
			}
			return err
		}

		var count int64
		err = tx.Model(&Membership{}).
			Where("team_id = ? AND status = ?", team.ID, string(domain.MembershipAccepted)).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count >= int64(maxSize) {
			return ErrTeamFull
		}

		membership = Membership{
			TeamID:        team.ID,
			CompetitionID: competitionID,
			UserID:        userID,
			Role:          string(domain.RoleMember),
			Status:        string(domain.MembershipAccepted),
			JoinedAt:      time.Now(),
		}
		if err := tx.Create(&membership).Error; err != nil {
			if isUniqueViolation(err, "uni_memberships_active_user") {
				return ErrAlreadyOnTeam
			}
			return err
		}

		return nil
	})
	if err != nil {
		return Membership{}, err
	}

	return membership, nil
}

// Leave removes the user's membership. A leader may only leave once no other
// ACCEPTED members remain; that final departure withdraws the team.
func (d *TeamDAO) Leave(ctx context.Context, teamID, userID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team Team
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&team, teamID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}

		var membership Membership
		err = tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&membership).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotOnTeam
			}
			return err
		}

		if team.LeaderID == userID {
			var others int64
			err = tx.Model(&Membership{}).
				Where("team_id = ? AND user_id <> ? AND status = ?",
					teamID, userID, string(domain.MembershipAccepted)).
				Count(&others).Error
			if err != nil {
				return err
			}
			if others > 0 {
				return ErrLeaderCannotLeave
			}

			if err := tx.Delete(&membership).Error; err != nil {
				return err
			}

			return tx.Model(&team).Update("state", string(domain.TeamWithdrawn)).Error
		}

		return tx.Delete(&membership).Error
	})
}

// TransferLeadership reassigns the leader role to another ACCEPTED member.
func (d *TeamDAO) TransferLeadership(ctx context.Context, teamID, fromUserID, toUserID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team Team
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&team, teamID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}

		if team.LeaderID != fromUserID {
			return ErrNotLeader
		}

		var successor Membership
		err = tx.Where("team_id = ? AND user_id = ? AND status = ?",
			teamID, toUserID, string(domain.MembershipAccepted)).
			First(&successor).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotOnTeam
			}
			return err
		}

		err = tx.Model(&Membership{}).
			Where("team_id = ? AND user_id = ?", teamID, fromUserID).
			Update("role", string(domain.RoleMember)).Error
		if err != nil {
			return err
		}

		err = tx.Model(&successor).Update("role", string(domain.RoleLeader)).Error
		if err != nil {
			return err
		}

		return tx.Model(&team).Update("leader_id", toUserID).Error
	})
}
