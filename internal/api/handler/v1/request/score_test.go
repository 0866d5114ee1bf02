package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordScoreRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RecordScoreRequest
		wantErr bool
	}{
		{
			name: "valid",
			req: RecordScoreRequest{
				Criteria: []CriterionScoreInput{
					{Name: "innovation", Score: 80, Weight: 2},
					{Name: "polish", Score: 0, Weight: 1},
				},
			},
		},
		{
			name:    "empty criteria",
			req:     RecordScoreRequest{},
			wantErr: true,
		},
		{
			name: "missing criterion name",
			req: RecordScoreRequest{
				Criteria: []CriterionScoreInput{{Score: 50, Weight: 1}},
			},
			wantErr: true,
		},
		{
			name: "zero weight",
			req: RecordScoreRequest{
				Criteria: []CriterionScoreInput{{Name: "overall", Score: 50, Weight: 0}},
			},
			wantErr: true,
		},
		{
			name: "score above bound",
			req: RecordScoreRequest{
				Criteria: []CriterionScoreInput{{Name: "overall", Score: 101, Weight: 1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmitProjectRequest_Validate(t *testing.T) {
	valid := SubmitProjectRequest{RepoURL: "https://example.com/repo"}
	assert.NoError(t, valid.Validate())

	missing := SubmitProjectRequest{Description: "no repo"}
	assert.Error(t, missing.Validate())
}

func TestJoinTeamRequest_Validate(t *testing.T) {
	assert.NoError(t, (&JoinTeamRequest{JoinCode: "ABCD1234"}).Validate())
	assert.Error(t, (&JoinTeamRequest{JoinCode: "SHORT"}).Validate())
	assert.Error(t, (&JoinTeamRequest{}).Validate())
}
