package request

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CriterionScoreInput struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

type RecordScoreRequest struct {
	Criteria []CriterionScoreInput `json:"criteria" binding:"required"`
}

func (req *RecordScoreRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Criteria, validation.Required, validation.Length(1, 50), validation.By(validateCriteria)),
	)
}

func validateCriteria(value interface{}) error {
	criteria, ok := value.([]CriterionScoreInput)
	if !ok {
		return fmt.Errorf("invalid criteria list")
	}

	for i, criterion := range criteria {
		err := validation.ValidateStruct(&criterion,
			validation.Field(&criterion.Name, validation.Required, validation.Length(1, 100)),
			validation.Field(&criterion.Score, validation.Min(0.0), validation.Max(100.0)),
			validation.Field(&criterion.Weight, validation.Required, validation.Min(0.0).Exclusive()),
		)
		if err != nil {
			return fmt.Errorf("criteria[%d]: %v", i, err)
		}
	}

	return nil
}
