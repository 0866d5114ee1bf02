package domain

import "time"

type SubmissionStatus string

const (
	SubmissionDraft     SubmissionStatus = "DRAFT"
	SubmissionSubmitted SubmissionStatus = "SUBMITTED"
)

type Submission struct {
	ID             uint             `json:"id"`
	TeamID         uint             `json:"team_id"`
	Description    string           `json:"description"`
	RepoURL        string           `json:"repo_url"`
	DemoURL        string           `json:"demo_url"`
	ArtifactURL    string           `json:"artifact_url"`
	Status         SubmissionStatus `json:"status"`
	LastModifiedBy uint             `json:"last_modified_by"`
	SubmittedAt    time.Time        `json:"submitted_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// SubmissionFields are the leader-editable parts of a submission.
type SubmissionFields struct {
	Description string
	RepoURL     string
	DemoURL     string
	ArtifactURL string
}
