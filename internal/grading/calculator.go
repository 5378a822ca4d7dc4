package grading

import (
	"github.com/skolverk/betyg/internal/models"
)

// Calculator applies a registered policy across a batch of mark records.
// It is a pure transform: no side effects, no retained references into the
// caller's slice, output order matches input order.
type Calculator struct {
	registry *Registry
}

func NewCalculator(registry *Registry) *Calculator {
	return &Calculator{registry: registry}
}

// Calculate validates every record, normalizes the scores and grades them
// under the policy identified by policyID. The whole batch is validated
// before any grading happens, so a malformed record never yields partial
// results.
func (c *Calculator) Calculate(marks []models.MarkRecord, policyID string) ([]models.GradeResult, error) {
	policy, err := c.registry.Resolve(policyID)
	if err != nil {
		return nil, err
	}

	for i := range marks {
		if err := marks[i].Validate(); err != nil {
			return nil, &InvalidMarkRecordError{
				StudentID: marks[i].StudentID,
				Subject:   marks[i].Subject,
				Reason:    err.Error(),
			}
		}
	}

	results := make([]models.GradeResult, 0, len(marks))
	for i := range marks {
		normalized := marks[i].Normalized()
		grade, err := policy.Grade(normalized)
		if err != nil {
			return nil, err
		}
		results = append(results, models.GradeResult{
			StudentID:       marks[i].StudentID,
			Subject:         marks[i].Subject,
			NormalizedScore: normalized,
			Grade:           grade,
			PolicyID:        policy.ID(),
		})
	}

	return results, nil
}
