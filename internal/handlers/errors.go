package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skolverk/betyg/internal/grading"
	"github.com/skolverk/betyg/internal/report"
)

// errorBody is the structured error response. Code matches the error
// taxonomy so automated clients can branch without parsing the message.
type errorBody struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

func classifyError(err error) (int, string) {
	var markErr *grading.InvalidMarkRecordError
	var renderErr *report.RenderError

	switch {
	case errors.As(err, &markErr):
		return http.StatusBadRequest, "invalid_mark_record"
	case errors.Is(err, grading.ErrInvalidScore):
		return http.StatusBadRequest, "invalid_score"
	case errors.Is(err, grading.ErrUnknownPolicy):
		return http.StatusBadRequest, "unknown_policy"
	case errors.Is(err, grading.ErrEmptyCohort):
		return http.StatusUnprocessableEntity, "empty_cohort"
	case errors.Is(err, report.ErrUnknownTemplate):
		return http.StatusNotFound, "unknown_template"
	case errors.As(err, &renderErr):
		return http.StatusBadGateway, "render_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(w http.ResponseWriter, err error) (status int) {
	status, code := classifyError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{
		Error:  http.StatusText(status),
		Code:   code,
		Detail: err.Error(),
	})
	return status
}
