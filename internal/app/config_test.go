package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  http-port: \":8080\"\n")

	cfg, realpath, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, realpath)
	assert.Equal(t, ":8080", cfg.Server.HttpPort)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "alphanumeric", cfg.Share.TokenCodec)
	assert.Equal(t, 40, cfg.Share.TokenLength)
	assert.Equal(t, "@every 10m", cfg.Share.SweepCron)
	assert.False(t, cfg.Share.InviteSingleUse)

	svc := cfg.GetServiceConfig()
	assert.Equal(t, 7*24*time.Hour, svc.Share.InviteExpiry)
	assert.Equal(t, 5*time.Minute, svc.Share.StatsFlushInterval)
	assert.Zero(t, svc.Share.LinkExpiry)
	assert.Equal(t, 30*24*time.Hour, cfg.GetTokenExpiry())
}

func TestLoadConfig_ShareSection(t *testing.T) {
	path := writeConfig(t, `
share:
  base-url: "https://share.example.com/"
  link-expiry: 30d
  invite-expiry: 2d
  invite-single-use: true
database:
  type: postgres
  replicas: ["host=replica1"]
`)
	cfg, _, err := LoadConfig(path)
	require.NoError(t, err)

	svc := cfg.GetServiceConfig()
	assert.Equal(t, 30*24*time.Hour, svc.Share.LinkExpiry)
	assert.Equal(t, 48*time.Hour, svc.Share.InviteExpiry)
	assert.True(t, svc.Share.InviteSingleUse)
	assert.Equal(t, "https://share.example.com/share/abc", svc.Share.ShareURL("abc"))

	db := cfg.GetDatabaseConfig()
	assert.Equal(t, "postgres", db.Type)
	assert.Equal(t, []string{"host=replica1"}, db.Replicas)
	assert.Equal(t, 30*time.Minute, db.ConnMaxLifetime)
}

func TestLoadConfig_ExplicitFalseKept(t *testing.T) {
	path := writeConfig(t, "tracer:\n  enabled: false\nlog:\n  production: false\nserver:\n  private-http-listen: \"\"\n")
	cfg, _, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Tracer.Enabled)
	assert.False(t, cfg.Log.Production)
	assert.Empty(t, cfg.Server.PrivateHttpListen)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad duration", "share:\n  invite-expiry: soon\n"},
		{"bad database", "database:\n  type: oracle\n"},
		{"bad yaml", "share: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigSave_RoundTrip(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, "share:\n  base-url: https://a.example\n"))
	require.NoError(t, err)

	cfg.File = filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg.Share.GuestRateLimit = 5
	require.NoError(t, cfg.Save())

	again, _, err := LoadConfig(cfg.File)
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", again.Share.BaseURL)
	assert.EqualValues(t, 5, again.Share.GuestRateLimit)
}
