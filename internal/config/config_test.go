package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "demosync.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "https://sheets.googleapis.com/v4", cfg.Sheets.APIBaseURL)
	assert.Equal(t, "Demo Schedule", cfg.Sheets.DemoSheetName)
	assert.Equal(t, "0", cfg.Sheets.DemoGID)
	assert.Equal(t, "Kitchen Requests", cfg.Sheets.KitchenSheetName)
	assert.Equal(t, "1", cfg.Sheets.KitchenGID)
	assert.False(t, cfg.Sheets.WriteBack)
	assert.Equal(t, 15, cfg.Fetch.StrategyTimeoutSecs)
	assert.Equal(t, 15*time.Second, cfg.Fetch.StrategyTimeout())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chtemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/demosync
sheets:
  spreadsheet_id: abc123
  write_back: true
fetch:
  strategy_timeout_secs: 5
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/demosync", cfg.Store.DatabaseURL)
	assert.Equal(t, "abc123", cfg.Sheets.SpreadsheetID)
	assert.True(t, cfg.Sheets.WriteBack)
	assert.Equal(t, 5*time.Second, cfg.Fetch.StrategyTimeout())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched keys keep their defaults.
	assert.Equal(t, "0", cfg.Sheets.DemoGID)
}

func TestLoadFromEnv(t *testing.T) {
	chtemp(t)
	t.Setenv("DEMOSYNC_STORE_DRIVER", "postgres")
	t.Setenv("DEMOSYNC_SHEETS_SPREADSHEET_ID", "env-sheet")
	t.Setenv("DEMOSYNC_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "env-sheet", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := chtemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "loud", Format: "json"}))
}
