package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

// TemplateUsage is the per-template aggregate of successful renders.
type TemplateUsage struct {
	TemplateID string `db:"template_id" json:"template_id"`
	Renders    int64  `db:"renders" json:"renders"`
	LastRender int64  `db:"last_render" json:"last_render"`
}
