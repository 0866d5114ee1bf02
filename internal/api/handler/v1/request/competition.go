package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateCompetitionRequest struct {
	Name                 string `json:"name" binding:"required"`
	MinTeamSize          int    `json:"min_team_size"`
	MaxTeamSize          int    `json:"max_team_size" binding:"required"`
	RegistrationDeadline string `json:"registration_deadline" binding:"required" format:"RFC3339"`
}

func (req *CreateCompetitionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.MinTeamSize, validation.Min(1)),
		validation.Field(&req.MaxTeamSize, validation.Required, validation.Min(1), validation.Max(50)),
		validation.Field(&req.RegistrationDeadline, validation.Required),
	)
}
