package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	ConfigFile = ""
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Dashboard.UsersDelay)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.ToastDuration)
	assert.Equal(t, 20, cfg.Dashboard.PerPage)
	assert.Equal(t, 100*time.Millisecond, cfg.Dialog.FocusDelay)
	assert.Equal(t, "table", cfg.Output)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api:
  base_url: http://from-file:8000
  timeout: 10s
dashboard:
  users_delay: 1s
log:
  level: info
`
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))

	t.Setenv("ADMINCTL_LOG__LEVEL", "debug")
	t.Setenv("ADMINCTL_API__USER_AGENT", "env-agent")
	t.Setenv(CredentialEnv, "secret")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-url", "", "")
	flags.String("output", "table", "")
	require.NoError(t, flags.Parse([]string{"--base-url", "http://from-flag:9000"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "http://from-flag:9000", cfg.API.BaseURL, "flag beats file")
	assert.Equal(t, 10*time.Second, cfg.API.Timeout, "file beats default")
	assert.Equal(t, time.Second, cfg.Dashboard.UsersDelay)
	assert.Equal(t, "debug", cfg.Log.Level, "env beats file")
	assert.Equal(t, "env-agent", cfg.API.UserAgent)
	assert.Equal(t, "table", cfg.Output, "unchanged flag keeps default")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"empty base url", func(c *Config) { c.API.BaseURL = " " }, true},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, true},
		{"zero per page", func(c *Config) { c.Dashboard.PerPage = 0 }, true},
		{"bad output", func(c *Config) { c.Output = "xml" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				API:       APIConfig{BaseURL: "http://x"},
				Dashboard: DashboardConfig{PerPage: 20},
				Log:       LogConfig{Level: "info"},
				Output:    "json",
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LogConfig{Level: "ERROR"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "nonsense"}.SlogLevel())
}

func TestInitializeAt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".adminctl")
	require.NoError(t, InitializeAt(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), ConfigFile)
	assert.Equal(t, filepath.Join(dir, "adminctl.log"), LogFile)
}
