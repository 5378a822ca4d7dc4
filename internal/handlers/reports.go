package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/skolverk/betyg/internal/app"
	"github.com/skolverk/betyg/internal/metrics"
	"github.com/skolverk/betyg/internal/models"
)

type ReportHandler struct {
	service *app.Service
}

func NewReportHandler(service *app.Service) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

type ReportRequest struct {
	Marks      []models.MarkRecord `json:"marks"`
	PolicyID   string              `json:"policy_id"`
	TemplateID string              `json:"template_id"`
}

func (h *ReportHandler) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
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

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid request body", status)
		return
	}

	results, err := h.service.Calculator.Calculate(req.Marks, req.PolicyID)
	if err != nil {
		status = writeError(w, err)
		return
	}

	stats, err := h.service.Summarizer.Summarize(results)
	if err != nil {
		status = writeError(w, err)
		return
	}

	// the bound HTML doubles as the cache key payload: same data, same report
	html, err := h.service.Renderer.BindHTML(results, stats, req.TemplateID)
	if err != nil {
		status = writeError(w, err)
		return
	}
	cacheKey := h.service.Cache.Key(req.TemplateID, html)

	if pdf, ok := h.service.Cache.Get(r.Context(), cacheKey); ok {
		h.writePDF(w, req.TemplateID, pdf)
		return
	}

	renderStart := time.Now()
	pdf, err := h.service.Renderer.RenderHTML(r.Context(), html, req.TemplateID)
	renderStatus := "ok"
	if err != nil {
		renderStatus = "error"
	}
	metrics.RenderDuration.WithLabelValues(req.TemplateID, renderStatus).
		Observe(time.Since(renderStart).Seconds())

	h.audit(req, results, pdf, renderStart, renderStatus)

	if err != nil {
		logger.Error.Printf("Render failed for template %s: %v", req.TemplateID, err)
		status = writeError(w, err)
		return
	}

	h.service.Cache.Put(r.Context(), cacheKey, pdf)
	h.writePDF(w, req.TemplateID, pdf)
}

func (h *ReportHandler) HandleRecentRenders(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := h.service.Store.ListRenderEvents(limit)
	if err != nil {
		logger.Error.Printf("Failed to list render events: %v", err)
		http.Error(w, "Failed to fetch render events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"rows": events,
	}); err != nil {
		logger.Error.Printf("Failed to encode render events: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *ReportHandler) HandleReportUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.service.Store.FetchTemplateUsage()
	if err != nil {
		logger.Error.Printf("Failed to fetch template usage: %v", err)
		http.Error(w, "Failed to fetch usage", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"usage": usage,
	}); err != nil {
		logger.Error.Printf("Failed to encode usage response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *ReportHandler) writePDF(w http.ResponseWriter, templateID string, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+templateID+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Write(pdf)
}

// audit records the render event; a failing audit write never fails the
// request.
func (h *ReportHandler) audit(req ReportRequest, results []models.GradeResult, pdf []byte, renderStart time.Time, renderStatus string) {
	event := &models.RenderEvent{
		Timestamp:    time.Now().Unix(),
		TemplateID:   req.TemplateID,
		PolicyID:     req.PolicyID,
		StudentCount: len(results),
		PDFBytes:     len(pdf),
		DurationMs:   time.Since(renderStart).Milliseconds(),
		Status:       renderStatus,
	}
	if err := h.service.Store.CreateRenderEvent(event); err != nil {
		logger.Error.Printf("Failed to record render event: %v", err)
	}
}
