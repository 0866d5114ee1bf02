package response

import "github.com/campushub/competition-api/internal/domain"

type SubmissionResponse struct {
	SubmissionID uint                    `json:"submission_id"`
	Status       domain.SubmissionStatus `json:"status"`
	Submission   domain.Submission       `json:"submission"`
}

type ScoreRecordedResponse struct {
	ScoreEntryID uint    `json:"score_entry_id"`
	Total        float64 `json:"total"`
}
