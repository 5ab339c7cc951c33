package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

var (
	// ConfigDir is the global configuration directory (~/.adminctl)
	ConfigDir string

	// ConfigFile is the optional YAML configuration file
	ConfigFile string

	// LogFile receives the console logs while the TUI owns the terminal
	LogFile string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string
)

// Initialize sets up the configuration paths
// It creates ~/.adminctl/ if it doesn't exist. Nothing else is written:
// the admin key and fetched records only live in memory.
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".adminctl"))
}

// InitializeAt is Initialize with an explicit directory
func InitializeAt(dir string) error {
	ConfigDir = dir
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	LogFile = filepath.Join(ConfigDir, "adminctl.log")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}
	return nil
}

// OpenLogFile opens the log file for appending, creating it if needed
func OpenLogFile() (*os.File, error) {
	if LogFile == "" {
		return nil, fmt.Errorf("config not initialized")
	}
	f, err := os.OpenFile(LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, FilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
