package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, ReferenceStatic, cfg.Reference.Source)
	assert.Equal(t, "2025-07-14", cfg.Planner.YearStart)
	assert.Equal(t, "2026-06-20", cfg.Planner.YearEnd)
	assert.Equal(t, "libur_smt1", cfg.Planner.SemesterBreakCategory)
	assert.Equal(t, 216, cfg.Planner.FallbackTargetHours)
	assert.Equal(t, 3, cfg.Planner.MaxHoursPerDay)
	assert.False(t, cfg.Content.Enabled)
	assert.Equal(t, 2, cfg.Content.MaxConcurrency)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
	assert.True(t, cfg.Exports.Enabled)
	assert.Equal(t, "A4", cfg.Exports.DefaultPaperSize)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REFERENCE_SOURCE", "FILE")
	t.Setenv("REFERENCE_FILE", "/etc/atp/reference.yaml")
	t.Setenv("ACADEMIC_YEAR_START", "2026-07-13")
	t.Setenv("PLANNER_MAX_HOURS_PER_DAY", "4")
	t.Setenv("ENABLE_CONTENT_GENERATION", "true")
	t.Setenv("GENAI_TIMEOUT", "15s")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ReferenceFile, cfg.Reference.Source)
	assert.Equal(t, "/etc/atp/reference.yaml", cfg.Reference.File)
	assert.Equal(t, "2026-07-13", cfg.Planner.YearStart)
	assert.Equal(t, 4, cfg.Planner.MaxHoursPerDay)
	assert.True(t, cfg.Content.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Content.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}
