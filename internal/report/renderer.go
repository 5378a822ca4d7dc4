package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/skolverk/betyg/internal/models"
)

// Engine rasterizes a bound HTML document into PDF bytes. The production
// engine shells out to wkhtmltopdf; tests substitute a fake and assert on
// the HTML instead of on raster output, since PDF bytes are not stable
// across engine versions.
type Engine interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// Renderer binds grade results and cohort statistics into an HTML template
// and hands the document to the engine. Rasterization is CPU-bound and not
// cancellable mid-render, so concurrent renders are bounded by a semaphore
// and a cancelled request discards the result instead of interrupting the
// engine.
type Renderer struct {
	templates      *TemplateLibrary
	engine         Engine
	sem            chan struct{}
	retryTransient bool
	now            func() time.Time
}

func NewRenderer(templates *TemplateLibrary, engine Engine, maxConcurrent int, retryTransient bool) *Renderer {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Renderer{
		templates:      templates,
		engine:         engine,
		sem:            make(chan struct{}, maxConcurrent),
		retryTransient: retryTransient,
		now:            time.Now,
	}
}

// view is the data bound into a template. Everything is copied or
// preformatted so templates never touch the caller's structures.
type view struct {
	GeneratedAt  string
	PolicyID     string
	Results      []models.GradeResult
	Count        int
	Mean         string
	Median       string
	StdDev       string
	Min          string
	Max          string
	PassRate     string
	Distribution []models.BucketCount
}

func (r *Renderer) newView(results []models.GradeResult, stats models.CohortStatistics) view {
	resultsCopy := make([]models.GradeResult, len(results))
	copy(resultsCopy, results)

	distCopy := make([]models.BucketCount, len(stats.Distribution))
	copy(distCopy, stats.Distribution)

	policyID := ""
	if len(results) > 0 {
		policyID = results[0].PolicyID
	}

	return view{
		GeneratedAt:  r.now().UTC().Format("2006-01-02 15:04 UTC"),
		PolicyID:     policyID,
		Results:      resultsCopy,
		Count:        stats.Count,
		Mean:         fmtScore(stats.Mean),
		Median:       fmtScore(stats.Median),
		StdDev:       fmtScore(stats.StdDev),
		Min:          fmtScore(stats.Min),
		Max:          fmtScore(stats.Max),
		PassRate:     fmtRate(stats.PassRate),
		Distribution: distCopy,
	}
}

func fmtScore(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func fmtRate(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}

// BindHTML fills the template with results and statistics and returns the
// bound HTML document. Binding failures are deterministic input faults and
// are never retried.
func (r *Renderer) BindHTML(results []models.GradeResult, stats models.CohortStatistics, templateID string) ([]byte, error) {
	tmpl, err := r.templates.Get(templateID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.newView(results, stats)); err != nil {
		return nil, fmt.Errorf("failed to bind template %q: %w", templateID, err)
	}
	return buf.Bytes(), nil
}

// Render produces the PDF for the given results and statistics. The inputs
// are consumed read-only, so the caller can render several template variants
// from the same computed data.
func (r *Renderer) Render(ctx context.Context, results []models.GradeResult, stats models.CohortStatistics, templateID string) ([]byte, error) {
	html, err := r.BindHTML(results, stats, templateID)
	if err != nil {
		return nil, err
	}

	return r.RenderHTML(ctx, html, templateID)
}

// RenderHTML rasterizes an already-bound document. Callers that bound the
// HTML themselves (e.g. to derive a cache key) use this to avoid executing
// the template twice.
func (r *Renderer) RenderHTML(ctx context.Context, html []byte, templateID string) ([]byte, error) {
	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// the engine runs detached from the caller's context: rasterization is
	// not resumable, so cancellation must never kill the binary mid-render
	engineCtx := context.WithoutCancel(ctx)

	pdf, err := r.engine.Render(engineCtx, html)
	if err != nil && r.retryTransient && ctx.Err() == nil {
		logger.Debug.Printf("Retrying render for template %s after engine fault: %v", templateID, err)
		pdf, err = r.engine.Render(engineCtx, html)
	}
	if err != nil {
		return nil, &RenderError{TemplateID: templateID, Err: err}
	}

	// a cancelled caller gets no result, the finished render is just discarded
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return pdf, nil
}
