package models

// RenderEvent is one audit row for a report render call. Only operational
// facts are recorded here; student marks and grades are never persisted.
type RenderEvent struct {
	Timestamp    int64  `db:"timestamp" json:"timestamp"`
	TemplateID   string `db:"template_id" json:"template_id" validate:"required"`
	PolicyID     string `db:"policy_id" json:"policy_id" validate:"required"`
	StudentCount int    `db:"student_count" json:"student_count"`
	PDFBytes     int    `db:"pdf_bytes" json:"pdf_bytes"`
	DurationMs   int64  `db:"duration_ms" json:"duration_ms"`
	Status       string `db:"status" json:"status"`
}

/*
CREATE TABLE render_events (
    timestamp BIGINT NOT NULL,
    template_id TEXT NOT NULL,
    policy_id TEXT NOT NULL,
    student_count INTEGER NOT NULL,
    pdf_bytes INTEGER NOT NULL,
    duration_ms BIGINT NOT NULL,
    status TEXT NOT NULL
);
*/
