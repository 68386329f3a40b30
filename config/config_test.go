package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "Improv Battle", cfg.Pages.Title)
	assert.Equal(t, NoticeAlert, cfg.Pages.NoticeMode)
	assert.Equal(t, "voice-agent", cfg.Widget.Element)
	assert.True(t, cfg.Presence.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Presence.HeartbeatInterval)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, *Default(), *cfg)
}

func TestLoadConfig_FileValues(t *testing.T) {
	dir := writeConfig(t, `
server:
  http_address: "127.0.0.1:9000"
  shutdown_timeout: 2s
pages:
  notice_mode: inline
widget:
  element: improv-agent
presence:
  heartbeat_interval: 5s
  idle_timeout: 20s
database:
  driver: postgres
  postgres:
    host: db
    port: 6543
`)
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, NoticeInline, cfg.Pages.NoticeMode)
	assert.Equal(t, "improv-agent", cfg.Widget.Element)
	assert.Equal(t, 20*time.Second, cfg.Presence.IdleTimeout)
	assert.Equal(t, "host='db' port='6543' user='postgres' password='' dbname='improv_battle' sslmode='disable'",
		cfg.Database.Postgres.DSN())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, "pages:\n  title: From File\n")
	t.Setenv("IMPROV_PAGES_TITLE", "From Env")
	t.Setenv("IMPROV_PRESENCE_ENABLED", "false")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Pages.Title)
	assert.False(t, cfg.Presence.Enabled)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "pages:\n  notice_mode: toast\n"))
	require.ErrorIs(t, err, ErrInvalidNoticeMode)

	_, err = LoadConfig(writeConfig(t, "widget:\n  element: VoiceAgent\n"))
	require.ErrorIs(t, err, ErrInvalidElement)

	_, err = LoadConfig(writeConfig(t, "presence:\n  heartbeat_interval: 30s\n  idle_timeout: 10s\n"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "presence:\n  reap_interval: 0s\n"))
	require.Error(t, err)

	// Presence disabled skips the timing checks.
	_, err = LoadConfig(writeConfig(t, "presence:\n  enabled: false\n  reap_interval: 0s\n"))
	require.NoError(t, err)
}

func TestPostgresDSN_ParsesWithPgx(t *testing.T) {
	// Keep a local ~/.pgpass from filling in the empty password.
	t.Setenv("PGPASSFILE", filepath.Join(t.TempDir(), "missing"))

	tests := []struct {
		name     string
		password string
	}{
		{"empty password", ""},
		{"password with space", "open sesame"},
		{"password with quote and backslash", `it's\here`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := Default().Database.Postgres
			pg.Password = tt.password

			parsed, err := pgconn.ParseConfig(pg.DSN())
			require.NoError(t, err)
			assert.Equal(t, "localhost", parsed.Host)
			assert.Equal(t, uint16(5432), parsed.Port)
			assert.Equal(t, "postgres", parsed.User)
			assert.Equal(t, tt.password, parsed.Password)
			assert.Equal(t, "improv_battle", parsed.Database)
		})
	}
}
