package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/fbref-stats/internal/fixtures"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("table: team\n"))
	require.NoError(t, err)

	assert.Equal(t, TableTeam, cfg.Table)
	assert.Equal(t, DefaultURL, cfg.Source.URL)
	assert.Equal(t, ModeBrowser, cfg.Scraper.Mode)
	assert.Equal(t, 1, cfg.Scraper.Workers)
	assert.Equal(t, TeamModeFor, cfg.TeamTable.Mode)
	assert.Equal(t, fixtures.DefaultCount, cfg.TeamTable.NumberFixtures)
	assert.True(t, *cfg.TeamTable.ScatterPlot)
	assert.True(t, *cfg.Browser.Headless)
	assert.Equal(t, "Per 90 Minutes_xG+xAG", cfg.PlayerTable.SortBy)
	assert.Equal(t, "csv_files", cfg.Output.CSVDir)
}

func TestParse_Values(t *testing.T) {
	data := []byte(`
table: player
scraper:
  mode: http
  workers: 4
  rate_limit: 500ms
player_table:
  min_minutes: 450
  min_xGi: 0.3
  position: fw
  player_list: ["Bukayo Saka", "Cole Palmer"]
  scatter_plot: false
  sort_by: Expected_xG
  sort_by_order: true
team_table:
  mode: against
  fixture_eval: true
  number_fixtures: 3
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, ModeHTTP, cfg.Scraper.Mode)
	assert.Equal(t, 4, cfg.Scraper.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Scraper.RateLimit)
	assert.Equal(t, 450.0, cfg.PlayerTable.MinMinutes)
	assert.Equal(t, 0.3, cfg.PlayerTable.MinXGI)
	assert.Equal(t, "fw", cfg.PlayerTable.Position)
	assert.Equal(t, []string{"Bukayo Saka", "Cole Palmer"}, cfg.PlayerTable.PlayerList)
	assert.False(t, *cfg.PlayerTable.ScatterPlot)
	assert.Equal(t, "Expected_xG", cfg.PlayerTable.SortBy)
	assert.True(t, cfg.PlayerTable.SortByOrder)
	assert.Equal(t, TeamModeAgainst, cfg.TeamTable.Mode)
	assert.True(t, cfg.TeamTable.FixtureEval)
	assert.Equal(t, 3, cfg.TeamTable.NumberFixtures)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"table":     "table: goalkeeper\n",
		"mode":      "scraper:\n  mode: carrier-pigeon\n",
		"team mode": "team_table:\n  mode: sideways\n",
		"yaml":      "table: [\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("table: team\nteam_table:\n  team_list: [Arsenal]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arsenal"}, cfg.TeamTable.TeamList)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvURL, "https://fbref.com/en/comps/12/stats/La-Liga-Stats")
	t.Setenv(EnvScraperMode, ModeHTTP)
	t.Setenv(EnvChromePath, "/usr/bin/chromium")

	cfg := CreateDefault()
	cfg.ApplyEnv()

	assert.Equal(t, "https://fbref.com/en/comps/12/stats/La-Liga-Stats", cfg.Source.URL)
	assert.Equal(t, ModeHTTP, cfg.Scraper.Mode)
	assert.Equal(t, "/usr/bin/chromium", cfg.Browser.ExecPath)
}
