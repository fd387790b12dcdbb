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

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CHATBOT_HOME", dir)
	for _, key := range []string{
		"CHATBOT_API_URL", "CHATBOT_TIMEOUT", "CHATBOT_TOKEN_STORE",
		"CHATBOT_PASSWORD_POLICY", "CHATBOT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 5*time.Second, cfg.VerifyTimeout())
	assert.Equal(t, TokenStoreFile, cfg.Auth.TokenStore)
	assert.Equal(t, PolicyMin8, cfg.Auth.PasswordPolicy)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
}

func TestLoad_TOML(t *testing.T) {
	dir := isolate(t)
	content := `
[api]
base_url = "https://chat.example.com/"
timeout_secs = 10

[auth]
token_store = "sqlite"
password_policy = "min6-symbol"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example.com", cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.API.TimeoutSecs)
	assert.Equal(t, 5, cfg.API.VerifyTimeoutSecs)
	assert.Equal(t, TokenStoreSQLite, cfg.Auth.TokenStore)
	assert.Equal(t, PolicyMin6Symbol, cfg.Auth.PasswordPolicy)

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	content := `{"api": {"base_url": "http://10.0.0.5:9000"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.API.BaseURL)
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := isolate(t)
	content := "[auth]\ntoken_store = \"cloud\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.token_store")
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CHATBOT_API_URL", "http://backend:8000")
	t.Setenv("CHATBOT_TIMEOUT", "12")
	t.Setenv("CHATBOT_TOKEN_STORE", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend:8000", cfg.API.BaseURL)
	assert.Equal(t, 12, cfg.API.TimeoutSecs)
	assert.Equal(t, TokenStoreMemory, cfg.Auth.TokenStore)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	work := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(work, ".env"), []byte("CHATBOT_API_URL=http://dotenv:8000\n"), 0600))
	prevWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	require.NoError(t, os.Unsetenv("CHATBOT_API_URL"))
	t.Cleanup(func() { os.Unsetenv("CHATBOT_API_URL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:8000", cfg.API.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host" }, "api.base_url"},
		{"no host", func(c *Config) { c.API.BaseURL = "http://" }, "api.base_url"},
		{"timeout too large", func(c *Config) { c.API.TimeoutSecs = 601 }, "api.timeout_secs"},
		{"verify timeout zero", func(c *Config) { c.API.VerifyTimeoutSecs = 0 }, "api.verify_timeout_secs"},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }, "api.rate_limit"},
		{"unknown policy", func(c *Config) { c.Auth.PasswordPolicy = "none" }, "auth.password_policy"},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "https://saved.example.com"
	cfg.UI.Markdown = true
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com", loaded.API.BaseURL)
	assert.True(t, loaded.UI.Markdown)
}

func TestTokenPath(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	path, err := cfg.TokenPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "credentials.json"), path)

	cfg.Auth.TokenStore = TokenStoreSQLite
	path, err = cfg.TokenPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chatbot.db"), path)

	cfg.Auth.TokenPath = "/custom/token"
	path, err = cfg.TokenPath()
	require.NoError(t, err)
	assert.Equal(t, "/custom/token", path)
}
