package grading

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidScore means a normalized score fell outside [0,1]. That is
	// a caller bug, not a data-quality issue, so it is never clamped.
	ErrInvalidScore = errors.New("normalized score outside [0,1]")

	// ErrUnknownPolicy means the requested policy id is not registered.
	ErrUnknownPolicy = errors.New("unknown grading policy")

	// ErrEmptyCohort is returned by Summarize only when the caller opted
	// into requiring a non-empty cohort.
	ErrEmptyCohort = errors.New("empty cohort")
)

// InvalidMarkRecordError identifies the record that failed batch validation.
// The whole batch fails with it: a malformed record signals an upstream data
// error that has to be fixed, not skipped.
type InvalidMarkRecordError struct {
	StudentID string
	Subject   string
	Reason    string
}

func (e *InvalidMarkRecordError) Error() string {
	return fmt.Sprintf("invalid mark record for %s/%s: %s", e.StudentID, e.Subject, e.Reason)
}
