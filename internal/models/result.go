package models

// GradeValue is what a grading policy assigns to a normalized score.
// Points is only set by point-bearing policies (GPA).
type GradeValue struct {
	Label  string   `json:"label"`
	Points *float64 `json:"points,omitempty"`
	Remark string   `json:"remark,omitempty"`
}

// GradeResult is the graded counterpart of one MarkRecord. It is a copy:
// it holds no references into the caller-supplied record and is read-only
// after the calculation pass that produced it.
type GradeResult struct {
	StudentID       string     `json:"student_id"`
	Subject         string     `json:"subject"`
	NormalizedScore float64    `json:"normalized_score"`
	Grade           GradeValue `json:"grade"`
	PolicyID        string     `json:"policy_id"`
}
