package response

import "github.com/campushub/competition-api/internal/domain"

type TeamCreatedResponse struct {
	TeamID   uint   `json:"team_id"`
	JoinCode string `json:"join_code"`
}

type TeamJoinedResponse struct {
	TeamID       uint `json:"team_id"`
	MembershipID uint `json:"membership_id"`
}

type TeamResponse struct {
	Team   domain.Team         `json:"team"`
	Roster []domain.Membership `json:"roster"`
}
