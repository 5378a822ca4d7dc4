package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skolverk/betyg/internal/grading"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
port = ":9999"

[grading]
pass_threshold = 0.6

[[grading.percentage_bands]]
label = "G"
min = 0.5
remark = "Godkänd"

[[grading.percentage_bands]]
label = "U"
min = 0.0
remark = "Underkänd"

[report]
template_dir = "./custom-templates"
max_concurrent_renders = 4
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", config.Server.Port)
	assert.Equal(t, 0.6, config.PassThreshold())
	assert.Equal(t, "./custom-templates", config.Report.TemplateDir)
	assert.Equal(t, 4, config.Report.MaxConcurrentRenders)

	bands := Bands(config.Grading.PercentageBands, grading.DefaultPercentageBands)
	require.Len(t, bands, 2)
	assert.Equal(t, "G", bands[0].Label)
	assert.Equal(t, 0.5, bands[0].Min)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
[server]
port = ":8080"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, grading.DefaultPassThreshold, config.PassThreshold())
	assert.Equal(t, "./templates", config.Report.TemplateDir)
	assert.Equal(t, 2, config.Report.MaxConcurrentRenders)
	assert.Equal(t, "betyg.db", config.Database.DSN)
	assert.Equal(t, 300, config.Cache.TTLSeconds)

	// band tables fall back to the built-in defaults
	bands := Bands(config.Grading.PercentageBands, grading.DefaultPercentageBands)
	assert.Equal(t, grading.DefaultPercentageBands, bands)
}

func TestLoadConfig_ZeroPassThresholdIsExplicit(t *testing.T) {
	path := writeConfig(t, `
[server]
port = ":8080"

[grading]
pass_threshold = 0.0
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	// an explicit 0.0 must survive, not be replaced by the default
	assert.Equal(t, 0.0, config.PassThreshold())
}

func TestLoadConfig_MissingPort(t *testing.T) {
	path := writeConfig(t, `
[grading]
pass_threshold = 0.5
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.toml")
	require.Error(t, err)
}
