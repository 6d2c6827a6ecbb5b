// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the camila client.
//
// Values resolve in order of precedence:
//   - CAMILA_* environment variables (a .env file is honored if present)
//   - ~/.camila/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/garcessebastian/camila-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete camila client configuration.
type Config struct {
	// Server settings
	Server ServerConfig `toml:"server"`

	// Chat behavior tuning
	Chat ChatConfig `toml:"chat"`

	// Dashboard behavior tuning
	Panel PanelConfig `toml:"panel"`

	// UI settings
	UI UIConfig `toml:"ui"`

	// StateDir is where credentials, quota, and the history cache live.
	// Empty means ~/.camila.
	StateDir string `toml:"state_dir"`
}

// ServerConfig describes how to reach the camila backend.
type ServerConfig struct {
	// BaseURL of the API, without a trailing slash
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request HTTP timeout
	TimeoutSecs int `toml:"timeout_secs"`
}

// ChatConfig tunes the conversational surface.
type ChatConfig struct {
	// RevealWords is how many words each reveal step uncovers
	RevealWords int `toml:"reveal_words"`
	// RevealIntervalMs is the delay between reveal steps
	RevealIntervalMs int `toml:"reveal_interval_ms"`
	// HistoryRefreshMs is the settle delay before reloading the chat
	// list after a send completes
	HistoryRefreshMs int `toml:"history_refresh_ms"`
}

// PanelConfig tunes the staff dashboards.
type PanelConfig struct {
	// PollSecs is the live-update poll interval for the expert panel
	PollSecs int `toml:"poll_secs"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Plain disables the full-screen UI in favor of a line-based REPL
	Plain bool `toml:"plain"`
	// Theme selects the color palette: "dark" or "light"
	Theme string `toml:"theme"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:     "https://camila.garcessebastian.com",
			TimeoutSecs: 30,
		},
		Chat: ChatConfig{
			RevealWords:      3,
			RevealIntervalMs: 40,
			HistoryRefreshMs: 500,
		},
		Panel: PanelConfig{
			PollSecs: 10,
		},
		UI: UIConfig{
			Theme: "dark",
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// ConfigPath returns the path of the TOML config file.
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".camila", "config.toml"), nil
}

// Load resolves the effective configuration: defaults, then the config
// file if one exists, then environment overrides.
func Load() (*Config, error) {
	// A .env next to the binary is a developer convenience; absence is fine.
	_ = godotenv.Load()

	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML merges a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// Save writes the configuration back to the config file atomically.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to an explicit path.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0o644)
}

// =============================================================================
// ENV OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies CAMILA_* environment variables on top of the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if baseURL := os.Getenv("CAMILA_API_URL"); baseURL != "" {
		c.Server.BaseURL = baseURL
	}
	if timeout := os.Getenv("CAMILA_TIMEOUT_SECS"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.Server.TimeoutSecs = secs
		}
	}
	if stateDir := os.Getenv("CAMILA_STATE_DIR"); stateDir != "" {
		c.StateDir = stateDir
	}
	if plain := os.Getenv("CAMILA_PLAIN"); plain != "" {
		c.UI.Plain = plain == "1" || plain == "true"
	}
	if theme := os.Getenv("CAMILA_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if poll := os.Getenv("CAMILA_POLL_SECS"); poll != "" {
		if secs, err := strconv.Atoi(poll); err == nil {
			c.Panel.PollSecs = secs
		}
	}
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

// SetDefaults fills zero values with the built-in defaults so a sparse
// config file still yields a workable configuration.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = def.Server.BaseURL
	}
	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = def.Server.TimeoutSecs
	}
	if c.Chat.RevealWords <= 0 {
		c.Chat.RevealWords = def.Chat.RevealWords
	}
	if c.Chat.RevealIntervalMs <= 0 {
		c.Chat.RevealIntervalMs = def.Chat.RevealIntervalMs
	}
	if c.Chat.HistoryRefreshMs <= 0 {
		c.Chat.HistoryRefreshMs = def.Chat.HistoryRefreshMs
	}
	if c.Panel.PollSecs <= 0 {
		c.Panel.PollSecs = def.Panel.PollSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url %q is not an absolute URL", c.Server.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url scheme %q is not http(s)", u.Scheme)
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return fmt.Errorf("ui.theme %q is not \"dark\" or \"light\"", c.UI.Theme)
	}
	return nil
}

// Timeout returns the per-request HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// RevealInterval returns the delay between reveal steps.
func (c *Config) RevealInterval() time.Duration {
	return time.Duration(c.Chat.RevealIntervalMs) * time.Millisecond
}

// HistoryRefreshDelay returns the settle delay before a history reload.
func (c *Config) HistoryRefreshDelay() time.Duration {
	return time.Duration(c.Chat.HistoryRefreshMs) * time.Millisecond
}

// PollInterval returns the expert panel poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Panel.PollSecs) * time.Second
}
