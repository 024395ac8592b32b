// Package config loads the application's settings file. Missing
// settings fall back to defaults; a missing file is not an error.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the user-tunable settings.
type Config struct {
	// StatePath is where the task state JSON lives.
	StatePath string `json:"statePath"`
	// SaveDelayMs is the debounce interval for persisting state changes.
	SaveDelayMs int `json:"saveDelayMs"`
	// UpcomingDays is the window size of the upcoming view.
	UpcomingDays int `json:"upcomingDays"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel"`
	// LogFile receives structured logs; the terminal belongs to the UI.
	LogFile string `json:"logFile"`
}

func dataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".odin-todo")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		StatePath:    filepath.Join(dataDir(), "state.json"),
		SaveDelayMs:  300,
		UpcomingDays: 7,
		LogLevel:     "info",
		LogFile:      filepath.Join(dataDir(), "todo.log"),
	}
}

// LoadConfig reads config.json from the given directory (the data dir
// when empty) and merges it over the defaults. A missing file yields
// the defaults; a malformed one is an error.
func LoadConfig(dir string) (*Config, error) {
	if dir == "" {
		dir = dataDir()
	}
	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return MergeWithDefaults(&cfg), nil
}

// SaveConfig writes the config as pretty-printed JSON.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// MergeWithDefaults fills in missing values with defaults.
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.StatePath == "" {
		cfg.StatePath = defaults.StatePath
	}
	if cfg.SaveDelayMs <= 0 {
		cfg.SaveDelayMs = defaults.SaveDelayMs
	}
	if cfg.UpcomingDays <= 0 {
		cfg.UpcomingDays = defaults.UpcomingDays
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaults.LogFile
	}
	return cfg
}
