package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda/internal/timefmt"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "api:\n  base_url: http://api.test\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://api.test", cfg.API.BaseURL)
	assert.Equal(t, timefmt.LocalePtBR, cfg.Locale())
	assert.Equal(t, "America/Sao_Paulo", cfg.Dashboard.Timezone)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 8090, cfg.Monitoring.HealthCheckPort)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL())
	assert.Equal(t, 10*time.Second, cfg.APITimeout())
	assert.Equal(t, time.Minute, cfg.RefreshInterval())
	assert.False(t, cfg.HasCredentials())
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("AGENDA_TEST_PASSWORD", "s3cret")
	t.Setenv("AGENDA_TEST_CHAT", "42")

	cfg, err := Load(writeConfig(t, `
session:
  email: diego@example.com
  password: ${AGENDA_TEST_PASSWORD}
telegram:
  chat_id: ${AGENDA_TEST_CHAT}
api:
  cache_ttl_seconds: 30
dashboard:
  locale: en-US
  timezone: UTC
  refresh_interval_seconds: 15
`))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Session.Password)
	assert.True(t, cfg.HasCredentials())
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL())
	assert.Equal(t, 15*time.Second, cfg.RefreshInterval())
	assert.Equal(t, timefmt.LocaleEnUS, cfg.Locale())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "api: [unclosed"))
	assert.Error(t, err)

	cfg, err := Load(writeConfig(t, "dashboard:\n  timezone: Nowhere/Invalid\n"))
	require.NoError(t, err)
	_, err = cfg.Location()
	assert.Error(t, err)
}
