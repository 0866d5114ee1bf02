package domain

import "time"

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // "participant", "judge", or "organizer"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsOrganizer() bool {
	return u.Role == "organizer"
}

func (u User) IsJudge() bool {
	return u.Role == "judge"
}
