package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SubmitProjectRequest struct {
	Description string `json:"description"`
	RepoURL     string `json:"repo_url" binding:"required"`
	DemoURL     string `json:"demo_url"`
	ArtifactURL string `json:"artifact_url"`
}

func (req *SubmitProjectRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.RepoURL, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.DemoURL, validation.Length(0, 500)),
		validation.Field(&req.ArtifactURL, validation.Length(0, 500)),
	)
}
