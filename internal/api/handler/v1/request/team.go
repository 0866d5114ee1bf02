package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

func (req *CreateTeamRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
	)
}

type JoinTeamRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
}

func (req *JoinTeamRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.JoinCode, validation.Required, validation.Length(8, 8)),
	)
}

type TransferLeadershipRequest struct {
	ToUserID uint `json:"to_user_id" binding:"required"`
}

func (req *TransferLeadershipRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ToUserID, validation.Required, validation.Min(uint(1))),
	)
}
