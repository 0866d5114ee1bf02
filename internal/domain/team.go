package domain

import "time"

type TeamState string

const (
	TeamActive    TeamState = "ACTIVE"
	TeamWithdrawn TeamState = "WITHDRAWN"
)

type MembershipRole string

const (
	RoleLeader MembershipRole = "LEADER"
	RoleMember MembershipRole = "MEMBER"
)

type MembershipStatus string

const (
	MembershipAccepted MembershipStatus = "ACCEPTED"
	MembershipInvited  MembershipStatus = "INVITED"
)

type Team struct {
	ID            uint      `json:"id"`
	CompetitionID uint      `json:"competition_id"`
	Name          string    `json:"name"`
	JoinCode      string    `json:"join_code,omitempty"`
	State         TeamState `json:"state"`
	LeaderID      uint      `json:"leader_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Roster []Membership `json:"roster,omitempty"`
}

type Membership struct {
	ID            uint             `json:"id"`
	TeamID        uint             `json:"team_id"`
	CompetitionID uint             `json:"competition_id"`
	UserID        uint             `json:"user_id"`
	Role          MembershipRole   `json:"role"`
	Status        MembershipStatus `json:"status"`
	JoinedAt      time.Time        `json:"joined_at"`
}
