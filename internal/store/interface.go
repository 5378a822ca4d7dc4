package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/skolverk/betyg/internal/models"
)

// AuditStore records operational render events. Mark and grade data never
// goes through here; the audit trail is the only thing this service writes.
type AuditStore interface {
	Close() error
	ApplyMigrations(dir string) error

	CreateRenderEvent(event *models.RenderEvent) error
	ListRenderEvents(limit int) ([]models.RenderEvent, error)
	FetchTemplateUsage() ([]TemplateUsage, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) CreateRenderEvent(event *models.RenderEvent) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO render_events (timestamp, template_id, policy_id, student_count, pdf_bytes, duration_ms, status)
		VALUES (:timestamp, :template_id, :policy_id, :student_count, :pdf_bytes, :duration_ms, :status)
	`, event)
	if err != nil {
		return fmt.Errorf("failed to create render event: %w", err)
	}
	return nil
}

func (s *BaseStore) ListRenderEvents(limit int) ([]models.RenderEvent, error) {
	var events []models.RenderEvent
	query := s.Converter(`
		SELECT timestamp, template_id, policy_id, student_count, pdf_bytes, duration_ms, status
		FROM render_events
		ORDER BY timestamp DESC
		LIMIT ?
	`)

	err := s.DB.Select(&events, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list render events: %w", err)
	}

	return events, nil
}

func (s *BaseStore) FetchTemplateUsage() ([]TemplateUsage, error) {
	var usage []TemplateUsage
	err := s.DB.Select(&usage, `
		SELECT
			template_id,
			COUNT(*) as renders,
			MAX(timestamp) as last_render
		FROM render_events
		WHERE status = 'ok'
		GROUP BY template_id
		ORDER BY template_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template usage: %w", err)
	}

	return usage, nil
}
