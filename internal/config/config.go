// Package config holds user preferences for vantage. Configuration lives in
// a JSON file under a project-local .vantage directory when present, falling
// back to the home directory. The Gemini credential is routed through this
// object and may be overridden by the GEMINI_API_KEY environment variable.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"vantage/internal/gemini"
)

// EnvAPIKey overrides the configured credential when set.
const EnvAPIKey = "GEMINI_API_KEY"

// Config holds user preferences.
type Config struct {
	APIKey                string `json:"api_key"`
	GenerateModel         string `json:"generate_model"`
	ChatModel             string `json:"chat_model"`
	Theme                 string `json:"theme"` // "light" or "dark"
	StorePath             string `json:"store_path"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	Geolocate             bool   `json:"geolocate"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		GenerateModel:         gemini.DefaultGenerateModel,
		ChatModel:             gemini.DefaultChatModel,
		Theme:                 "light",
		RequestTimeoutSeconds: 300,
		Geolocate:             true,
	}
}

// Dir returns the directory where config and session data are stored:
// a project-local .vantage directory if present or creatable, else
// ~/.vantage.
func Dir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".vantage")
		if stat, err := os.Stat(localDir); (err == nil && stat.IsDir()) || os.IsNotExist(err) {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vantage"), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk. A missing file yields defaults.
func Load() (Config, error) {
	path, err := File()
	if err != nil {
		return DefaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to disk, creating the directory as needed.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the credential for the generation/chat capability.
// The environment variable wins over the config file.
func (c Config) ResolveAPIKey() string {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key
	}
	return c.APIKey
}

// ResolveStorePath returns the session database path, defaulting to
// sessions.db next to the config file.
func (c Config) ResolveStorePath() (string, error) {
	if c.StorePath != "" {
		return c.StorePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return filepath.Join(dir, "sessions.db"), nil
}
