package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "first_match", cfg.Results.TieBreak)
	assert.Equal(t, 15*time.Minute, cfg.Results.CacheTTL)
	assert.Equal(t, []time.Weekday{time.Friday}, cfg.Calendar.WeekendDays)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("RESULTS_TIE_BREAK", "dense")
	t.Setenv("WEEKEND_DAYS", "saturday, Sunday, noday")
	t.Setenv("RESULTS_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "dense", cfg.Results.TieBreak)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, cfg.Calendar.WeekendDays)
	assert.Equal(t, 15*time.Minute, cfg.Results.CacheTTL)
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
