package models

import (
	"github.com/go-playground/validator/v10"
)

// MarkRecord is one raw mark submission for a student in a subject.
// RawScore must sit inside [0, MaxScore] and MaxScore must be positive;
// a record violating that fails the whole calculation batch.
type MarkRecord struct {
	StudentID string  `json:"student_id" validate:"required"`
	Subject   string  `json:"subject" validate:"required"`
	RawScore  float64 `json:"raw_score" validate:"min=0,ltefield=MaxScore"`
	MaxScore  float64 `json:"max_score" validate:"required,gt=0"`
}

func (m *MarkRecord) Validate() error {
	validate := validator.New()
	return validate.Struct(m)
}

// Normalized returns RawScore/MaxScore, the value every grading policy
// and statistic operates on.
func (m *MarkRecord) Normalized() float64 {
	return m.RawScore / m.MaxScore
}
