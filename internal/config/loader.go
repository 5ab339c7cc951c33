package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override, e.g. ADMINCTL_API__BASE_URL
const EnvPrefix = "ADMINCTL_"

// CredentialEnv is read by the CLI for the admin key. It is not a config key.
const CredentialEnv = EnvPrefix + "ADMIN_KEY"

// Config is the resolved runtime configuration
type Config struct {
	API       APIConfig       `koanf:"api"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Dialog    DialogConfig    `koanf:"dialog"`
	Log       LogConfig       `koanf:"log"`
	Mock      MockConfig      `koanf:"mock"`
	Output    string          `koanf:"output"`
}

// APIConfig points the console at the admin API
type APIConfig struct {
	BaseURL   string        `koanf:"base_url"`
	Timeout   time.Duration `koanf:"timeout"` // 0 disables the client timeout
	UserAgent string        `koanf:"user_agent"`
}

// DashboardConfig tunes the load chain and list sizes
type DashboardConfig struct {
	UsersDelay    time.Duration `koanf:"users_delay"`
	ToastDuration time.Duration `koanf:"toast_duration"`
	PerPage       int           `koanf:"per_page"`
}

// DialogConfig tunes dialog presentation
type DialogConfig struct {
	FocusDelay time.Duration `koanf:"focus_delay"`
}

// LogConfig selects the log level (debug, info, warn, error)
type LogConfig struct {
	Level string `koanf:"level"`
}

// MockConfig configures the local fake admin API
type MockConfig struct {
	Addr string `koanf:"addr"`
	Seed string `koanf:"seed"`
}

// SlogLevel returns the configured level, warn when it does not parse
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Defaults returns the built-in configuration values
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"api.base_url":             "http://localhost:5000",
		"api.timeout":              time.Duration(0),
		"api.user_agent":           "adminctl",
		"dashboard.users_delay":    500 * time.Millisecond,
		"dashboard.toast_duration": 5 * time.Second,
		"dashboard.per_page":       20,
		"dialog.focus_delay":       100 * time.Millisecond,
		"log.level":                "warn",
		"mock.addr":                "127.0.0.1:5000",
		"mock.seed":                "",
		"output":                   "table",
	}
}

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"base-url":   "api.base_url",
	"timeout":    "api.timeout",
	"user-agent": "api.user_agent",
	"log-level":  "log.level",
	"output":     "output",
	"addr":       "mock.addr",
	"seed":       "mock.seed",
	"per-page":   "dashboard.per_page",
}

// Load resolves configuration from defaults, the config file, environment
// variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file (explicit path must exist, the global one is optional)
	if cfgFile == "" && ConfigFile != "" {
		if _, err := os.Stat(ConfigFile); err == nil {
			cfgFile = ConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: ADMINCTL_API__BASE_URL -> api.base_url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		if s == CredentialEnv {
			return ""
		}
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only the ones explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the console cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.Dashboard.PerPage < 1 {
		return fmt.Errorf("dashboard.per_page must be >= 1, got %d", c.Dashboard.PerPage)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output must be table, json or yaml, got %q", c.Output)
	}
	return nil
}
