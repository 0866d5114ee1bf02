package domain

import "time"

type CompetitionState string

const (
	CompetitionOpen      CompetitionState = "OPEN"
	CompetitionJudging   CompetitionState = "JUDGING"
	CompetitionLocked    CompetitionState = "LOCKED"
	CompetitionPublished CompetitionState = "PUBLISHED"
)

type Competition struct {
	ID                   uint             `json:"id"`
	Name                 string           `json:"name"`
	State                CompetitionState `json:"state"`
	MinTeamSize          int              `json:"min_team_size"`
	MaxTeamSize          int              `json:"max_team_size"`
	RegistrationDeadline time.Time        `json:"registration_deadline"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// RegistrationOpen reports whether teams may still be created or joined.
func (c Competition) RegistrationOpen(now time.Time) bool {
	return c.State == CompetitionOpen && now.Before(c.RegistrationDeadline)
}
