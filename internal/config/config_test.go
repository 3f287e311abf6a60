package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/omarshaarawi/rosterbot/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("CHAT_ID", "12345")
	t.Setenv("YEAR", "2024")
	t.Setenv("LEAGUE_ID", "98765")
	t.Setenv("TEAM_ID", "3")
	t.Setenv("SWID", "{swid}")
	t.Setenv("ESPN_S2", "s2")
}

func TestNew_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, int64(12345), cfg.TelegramBot.ChatID)
	assert.Equal(t, 3, cfg.ESPNAPI.TeamID)
	assert.Len(t, cfg.League.Positions, 19)
	assert.Equal(t, "C", cfg.League.Positions[0])
	assert.Equal(t, 6*time.Hour, cfg.League.PoolExpiry)
	assert.Equal(t, 3, cfg.League.BenchSpots)
	assert.Equal(t, 2, cfg.League.IRSpots)
	assert.True(t, cfg.League.UseWeeklySchedule)
	assert.Equal(t, 16, cfg.Optimizer.TournamentSize)
	assert.Equal(t, 0.05, cfg.Optimizer.MutationPct)
	assert.Equal(t, 2.0, cfg.Optimizer.StdevClamp)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	cats, err := cfg.League.ParsedCategories()
	require.NoError(t, err)
	assert.Len(t, cats, 12)
	assert.Equal(t, stats.WHIP, cats[11])
}

func TestNew_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("POSITIONS", "C, 1B ,Util,Util")
	t.Setenv("CATEGORIES", "hr,k,era")
	t.Setenv("OPT_SEED", "7")
	t.Setenv("IR_SPOTS", "0")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "1B", "Util", "Util"}, cfg.League.Positions)
	cats, err := cfg.League.ParsedCategories()
	require.NoError(t, err)
	assert.Equal(t, []stats.Category{stats.HomeRuns, stats.Strikeouts, stats.ERA}, cats)
	assert.Equal(t, int64(7), cfg.Optimizer.Seed)
	assert.Zero(t, cfg.League.IRSpots)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown category", "CATEGORIES", "HR,XBH"},
		{"bad cron", "OPTIMIZE_CRON", "every monday"},
		{"bad timezone", "TZ", "Mars/Olympus"},
		{"non numeric team", "TEAM_ID", "three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := New()
			assert.Error(t, err)
		})
	}

	setRequired(t)
	t.Setenv("CATEGORIES", "HR,XBH")
	_, err := New()
	assert.ErrorIs(t, err, stats.ErrInvalidCategory)
}
