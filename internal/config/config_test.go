// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// DEFAULTS TESTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotEmpty(t, cfg.Server.BaseURL)
	assert.Equal(t, 3, cfg.Chat.RevealWords)
	assert.Equal(t, 40*time.Millisecond, cfg.RevealInterval())
	assert.Equal(t, 500*time.Millisecond, cfg.HistoryRefreshDelay())
	assert.Equal(t, 10*time.Second, cfg.PollInterval())
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// TOML TESTS
// =============================================================================

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
state_dir = "/tmp/camila-test"

[server]
base_url = "http://localhost:3000"
timeout_secs = 5

[chat]
reveal_words = 2

[ui]
plain = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	require.NoError(t, LoadTOML(cfg, path))
	cfg.SetDefaults()

	assert.Equal(t, "http://localhost:3000", cfg.Server.BaseURL)
	assert.Equal(t, 5, cfg.Server.TimeoutSecs)
	assert.Equal(t, 2, cfg.Chat.RevealWords)
	// Unset values fall back to defaults
	assert.Equal(t, 40, cfg.Chat.RevealIntervalMs)
	assert.True(t, cfg.UI.Plain)
	assert.Equal(t, "/tmp/camila-test", cfg.StateDir)
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "http://localhost:8080"
	require.NoError(t, SaveTOML(cfg, path))

	loaded := Default()
	require.NoError(t, LoadTOML(loaded, path))
	assert.Equal(t, "http://localhost:8080", loaded.Server.BaseURL)
}

// =============================================================================
// ENV OVERRIDE TESTS
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CAMILA_API_URL", "http://staging.local")
	t.Setenv("CAMILA_TIMEOUT_SECS", "7")
	t.Setenv("CAMILA_PLAIN", "1")
	t.Setenv("CAMILA_POLL_SECS", "30")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "http://staging.local", cfg.Server.BaseURL)
	assert.Equal(t, 7, cfg.Server.TimeoutSecs)
	assert.True(t, cfg.UI.Plain)
	assert.Equal(t, 30, cfg.Panel.PollSecs)
}

func TestApplyEnvOverrides_BadNumberIgnored(t *testing.T) {
	t.Setenv("CAMILA_TIMEOUT_SECS", "pronto")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, Default().Server.TimeoutSecs, cfg.Server.TimeoutSecs)
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"relative url", func(c *Config) { c.Server.BaseURL = "/api" }, true},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://x.com" }, true},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
