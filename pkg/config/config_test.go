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

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.UsePostgres())
	assert.Equal(t, "google", cfg.OAuthProvider)
	assert.Equal(t, 30*24*time.Hour, cfg.SyncWindowPast)
	assert.Equal(t, 90*24*time.Hour, cfg.SyncWindowFuture)
	assert.NotEmpty(t, cfg.SQLitePath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/lifedash")
	t.Setenv("CALENDAR_SYNC_WINDOW_PAST", "24h")
	t.Setenv("CALENDAR_LIST_CACHE_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.UsePostgres())
	assert.Equal(t, 24*time.Hour, cfg.SyncWindowPast)
	assert.Equal(t, time.Minute, cfg.CalendarCacheTTL)
}

func TestLoadIgnoresInvalidDuration(t *testing.T) {
	t.Setenv("CALENDAR_SYNC_WINDOW_FUTURE", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*24*time.Hour, cfg.SyncWindowFuture)
}
