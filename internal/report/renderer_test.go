package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skolverk/betyg/internal/models"
)

const testTemplate = `<html><body>
<p>Policy: {{.PolicyID}}</p>
<p>Students: {{.Count}}</p>
<p>Mean: {{.Mean}}</p>
<p>Pass rate: {{.PassRate}}</p>
<table>
{{range .Results}}<tr><td>{{.StudentID}}</td><td>{{.Grade.Label}}</td></tr>
{{end}}</table>
</body></html>`

// fakeEngine records the HTML it was given and returns canned PDF bytes.
type fakeEngine struct {
	html     [][]byte
	failures int
	err      error
}

func (f *fakeEngine) Render(ctx context.Context, html []byte) ([]byte, error) {
	f.html = append(f.html, html)
	if f.failures > 0 {
		f.failures--
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func setupRenderer(t *testing.T, engine Engine, retryTransient bool) *Renderer {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "class_summary.html"), []byte(testTemplate), 0o644)
	require.NoError(t, err)

	templates, err := LoadTemplates(dir)
	require.NoError(t, err)

	return NewRenderer(templates, engine, 2, retryTransient)
}

func sampleData() ([]models.GradeResult, models.CohortStatistics) {
	mean := 0.7
	passRate := 1.0
	results := []models.GradeResult{
		{StudentID: "s1", Subject: "Math", NormalizedScore: 0.9, Grade: models.GradeValue{Label: "A"}, PolicyID: "percentage"},
		{StudentID: "s2", Subject: "Math", NormalizedScore: 0.5, Grade: models.GradeValue{Label: "F"}, PolicyID: "percentage"},
	}
	stats := models.CohortStatistics{
		Count:    2,
		Mean:     &mean,
		PassRate: &passRate,
		Distribution: []models.BucketCount{
			{Label: "A", Count: 1},
			{Label: "F", Count: 1},
		},
	}
	return results, stats
}

func TestRenderer_Render(t *testing.T) {
	engine := &fakeEngine{}
	renderer := setupRenderer(t, engine, false)
	results, stats := sampleData()

	pdf, err := renderer.Render(context.Background(), results, stats, "class_summary")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)

	require.Len(t, engine.html, 1)
	html := string(engine.html[0])
	assert.Contains(t, html, "Policy: percentage")
	assert.Contains(t, html, "Students: 2")
	assert.Contains(t, html, "Mean: 70.0%")
	assert.Contains(t, html, "Pass rate: 100%")
	assert.Contains(t, html, "<td>s1</td><td>A</td>")
	assert.Contains(t, html, "<td>s2</td><td>F</td>")
}

func TestRenderer_RepeatRenderBindsIdenticalContent(t *testing.T) {
	templates, err := LoadTemplates(filepath.Join("..", "..", "templates"))
	require.NoError(t, err)

	renderer := NewRenderer(templates, &fakeEngine{}, 2, false)
	renderer.now = func() time.Time {
		return time.Date(2026, time.June, 12, 9, 30, 0, 0, time.UTC)
	}
	results, stats := sampleData()

	// PDF bytes are not stable across engine versions, so the contract is
	// on the bound content instead. The shipped templates stamp the
	// generation time, so this only holds with the clock held still.
	for _, templateID := range templates.IDs() {
		t.Run(templateID, func(t *testing.T) {
			first, err := renderer.BindHTML(results, stats, templateID)
			require.NoError(t, err)
			second, err := renderer.BindHTML(results, stats, templateID)
			require.NoError(t, err)

			assert.Contains(t, string(first), "2026-06-12 09:30 UTC")
			assert.Equal(t, string(first), string(second))
		})
	}
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	renderer := setupRenderer(t, &fakeEngine{}, false)
	results, stats := sampleData()

	_, err := renderer.Render(context.Background(), results, stats, "no_such_template")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRenderer_EngineFaultWrapped(t *testing.T) {
	engineErr := errors.New("wkhtmltopdf: cannot connect to X server")
	engine := &fakeEngine{failures: 99, err: engineErr}
	renderer := setupRenderer(t, engine, false)
	results, stats := sampleData()

	_, err := renderer.Render(context.Background(), results, stats, "class_summary")

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "class_summary", renderErr.TemplateID)
	assert.ErrorIs(t, err, engineErr, "the engine diagnostic must survive wrapping")
	assert.Contains(t, err.Error(), "cannot connect to X server")
}

func TestRenderer_RetriesOnceWhenConfigured(t *testing.T) {
	engine := &fakeEngine{failures: 1, err: errors.New("transient font cache miss")}
	renderer := setupRenderer(t, engine, true)
	results, stats := sampleData()

	pdf, err := renderer.Render(context.Background(), results, stats, "class_summary")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Len(t, engine.html, 2, "exactly one retry")
}

func TestRenderer_NoRetryWithoutFlag(t *testing.T) {
	engine := &fakeEngine{failures: 1, err: errors.New("boom")}
	renderer := setupRenderer(t, engine, false)
	results, stats := sampleData()

	_, err := renderer.Render(context.Background(), results, stats, "class_summary")
	require.Error(t, err)
	assert.Len(t, engine.html, 1)
}

func TestRenderer_CancelledContextDiscardsResult(t *testing.T) {
	renderer := setupRenderer(t, &fakeEngine{}, false)
	results, stats := sampleData()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := renderer.Render(ctx, results, stats, "class_summary")
	assert.ErrorIs(t, err, context.Canceled)
}

// disconnectingEngine simulates a client dropping the connection while the
// rasterizer is mid-flight.
type disconnectingEngine struct {
	cancel   context.CancelFunc
	ctxErr   error
	rendered bool
}

func (e *disconnectingEngine) Render(ctx context.Context, html []byte) ([]byte, error) {
	e.cancel()
	e.ctxErr = ctx.Err()
	e.rendered = true
	return []byte("%PDF-fake"), nil
}

func TestRenderer_EngineSurvivesCallerDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	engine := &disconnectingEngine{cancel: cancel}
	renderer := setupRenderer(t, engine, false)
	results, stats := sampleData()

	_, err := renderer.Render(ctx, results, stats, "class_summary")
	assert.ErrorIs(t, err, context.Canceled)

	require.True(t, engine.rendered)
	assert.NoError(t, engine.ctxErr, "a dropped caller must not interrupt the rasterizer")
}

func TestRenderer_DoesNotMutateInputs(t *testing.T) {
	renderer := setupRenderer(t, &fakeEngine{}, false)
	results, stats := sampleData()

	resultsCopy := make([]models.GradeResult, len(results))
	copy(resultsCopy, results)
	meanBefore := *stats.Mean

	_, err := renderer.Render(context.Background(), results, stats, "class_summary")
	require.NoError(t, err)

	assert.Equal(t, resultsCopy, results)
	assert.Equal(t, meanBefore, *stats.Mean)
}

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.html"), []byte("<p>{{.Count}}</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.html"), []byte("<p>{{.Mean}}</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	lib, err := LoadTemplates(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lib.IDs())

	_, err = lib.Get("one")
	assert.NoError(t, err)
	_, err = lib.Get("notes")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestLoadTemplates_EmptyDir(t *testing.T) {
	_, err := LoadTemplates(t.TempDir())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no *.html templates"))
}
