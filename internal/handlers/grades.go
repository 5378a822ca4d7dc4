package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/skolverk/betyg/internal/app"
	"github.com/skolverk/betyg/internal/grading"
	"github.com/skolverk/betyg/internal/metrics"
	"github.com/skolverk/betyg/internal/models"
)

type GradeHandler struct {
	service *app.Service
}

func NewGradeHandler(service *app.Service) *GradeHandler {
	return &GradeHandler{
		service: service,
	}
}

type CalculateRequest struct {
	Marks    []models.MarkRecord `json:"marks"`
	PolicyID string              `json:"policy_id"`
}

type CalculateResponse struct {
	Results    []models.GradeResult    `json:"results"`
	Statistics models.CohortStatistics `json:"statistics"`
}

func (h *GradeHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *GradeHandler) HandleCalculateGrades(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(duration)
	}()

	if !h.service.ValidateHeaders(r.Header) {
		status = http.StatusForbidden
		http.Error(w, "these are not the droids you are looking for", status)
		return
	}

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid request body", status)
		return
	}

	results, stats, err := h.calculate(req.Marks, req.PolicyID)
	if err != nil {
		logger.Debug.Printf("Calculation failed for policy %s: %v", req.PolicyID, err)
		status = writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CalculateResponse{
		Results:    results,
		Statistics: stats,
	}); err != nil {
		logger.Error.Printf("Failed to encode calculation response: %v", err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to encode response", status)
		return
	}
}

// HandleTestCalculation runs a fixed two-student sample through the
// calculator, for smoke-testing a deployment without real data.
func (h *GradeHandler) HandleTestCalculation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(duration)
	}()

	if !h.service.ValidateHeaders(r.Header) {
		status = http.StatusForbidden
		http.Error(w, "these are not the droids you are looking for", status)
		return
	}

	sample := []models.MarkRecord{
		{StudentID: "s1", Subject: "Math", RawScore: 45, MaxScore: 50},
		{StudentID: "s2", Subject: "Math", RawScore: 25, MaxScore: 50},
	}

	results, stats, err := h.calculate(sample, grading.PolicyPercentage)
	if err != nil {
		logger.Error.Printf("Test calculation failed: %v", err)
		status = writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CalculateResponse{
		Results:    results,
		Statistics: stats,
	}); err != nil {
		logger.Error.Printf("Failed to encode test calculation: %v", err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to encode response", status)
		return
	}
}

func (h *GradeHandler) HandleListPolicies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(duration)
	}()

	if !h.service.ValidateHeaders(r.Header) {
		status = http.StatusForbidden
		http.Error(w, "these are not the droids you are looking for", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"policies": h.service.Registry.List(),
	}); err != nil {
		logger.Error.Printf("Failed to encode policies: %v", err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to encode response", status)
		return
	}
}

// calculate runs the full grade+summarize pass and records metrics.
func (h *GradeHandler) calculate(marks []models.MarkRecord, policyID string) ([]models.GradeResult, models.CohortStatistics, error) {
	results, err := h.service.Calculator.Calculate(marks, policyID)
	if err != nil {
		metrics.CalculationsTotal.WithLabelValues(policyID, "error").Inc()
		return nil, models.CohortStatistics{}, err
	}

	stats, err := h.service.Summarizer.Summarize(results)
	if err != nil {
		metrics.CalculationsTotal.WithLabelValues(policyID, "error").Inc()
		return nil, models.CohortStatistics{}, err
	}

	metrics.CalculationsTotal.WithLabelValues(policyID, "ok").Inc()
	for _, result := range results {
		metrics.NormalizedScoreHistogram.WithLabelValues(policyID).Observe(result.NormalizedScore)
	}

	return results, stats, nil
}
