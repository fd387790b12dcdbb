// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatbot.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/jeranaias/chatbot-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatbot configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend API
	API APIConfig `toml:"api" json:"api"`

	// Authentication and token storage
	Auth AuthConfig `toml:"auth" json:"auth"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Logging configuration
	Log LogConfig `toml:"log" json:"log"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the backend root, e.g. http://localhost:8000
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs bounds login, registration and chat requests
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// VerifyTimeoutSecs bounds token verification at startup
	VerifyTimeoutSecs int `toml:"verify_timeout_secs" json:"verify_timeout_secs"`
	// RateLimit is the maximum requests per second (0 = unlimited)
	RateLimit float64 `toml:"rate_limit" json:"rate_limit"`
}

// AuthConfig contains session token and registration settings.
type AuthConfig struct {
	// TokenStore selects the credential backend: "file", "sqlite" or "memory"
	TokenStore string `toml:"token_store" json:"token_store"`
	// TokenPath overrides the credential file or database location
	TokenPath string `toml:"token_path" json:"token_path"`
	// PasswordPolicy is "min8" or "min6-symbol"
	PasswordPolicy string `toml:"password_policy" json:"password_policy"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Markdown renders plain bot replies through glamour
	Markdown bool `toml:"markdown" json:"markdown"`
	// NoColor disables ANSI colors
	NoColor bool `toml:"no_color" json:"no_color"`
	// ShowTimestamps prefixes messages with their time
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error, disabled
	Level string `toml:"level" json:"level"`
	// File is the log path (empty = ~/.chatbot/chatbot.log)
	File string `toml:"file" json:"file"`
}

// Token store backends.
const (
	TokenStoreFile   = "file"
	TokenStoreSQLite = "sqlite"
	TokenStoreMemory = "memory"
)

// Password policies.
const (
	PolicyMin8       = "min8"
	PolicyMin6Symbol = "min6-symbol"
)

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:           "http://localhost:8000",
			TimeoutSecs:       30,
			VerifyTimeoutSecs: 5,
			RateLimit:         0,
		},
		Auth: AuthConfig{
			TokenStore:     TokenStoreFile,
			PasswordPolicy: PolicyMin8,
		},
		UI: UIConfig{
			Markdown:       false,
			ShowTimestamps: false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// VerifyTimeout returns the token verification timeout as a duration.
func (c *Config) VerifyTimeout() time.Duration {
	return time.Duration(c.API.VerifyTimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatbot configuration directory (~/.chatbot).
// CHATBOT_HOME overrides it.
func ConfigDir() (string, error) {
	if dir := os.Getenv("CHATBOT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	return filepath.Join(home, ".chatbot"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	return pathInConfigDir("config.toml")
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	return pathInConfigDir("config.json")
}

// EnsureConfigDir ensures the config directory exists with owner-only access.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

func pathInConfigDir(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// TokenPath returns the credential location for the configured backend.
func (c *Config) TokenPath() (string, error) {
	if c.Auth.TokenPath != "" {
		return c.Auth.TokenPath, nil
	}
	switch c.Auth.TokenStore {
	case TokenStoreSQLite:
		return pathInConfigDir("chatbot.db")
	default:
		return pathInConfigDir("credentials.json")
	}
}

// LogPath returns the log file location.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return pathInConfigDir("chatbot.log")
}

// ensureSecurePermissions tightens config files to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return errors.Wrapf(err, "failed to fix insecure permissions (was %o)", mode)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// A .env file in the working directory is read before env overrides apply.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, errors.Wrap(err, "failed to load TOML config")
			}
			return finish(cfg)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, errors.Wrap(err, "failed to load JSON config")
			}
			return finish(cfg)
		}
	}

	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	loadDotEnv()

	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, errors.Wrapf(err, "failed to load JSON config from %s", path)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, errors.Wrapf(err, "failed to load TOML config from %s", path)
		}
	}
	return finish(cfg)
}

// LoadTOML decodes a TOML file on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return errors.Wrap(err, "failed to decode TOML file")
	}
	return nil
}

// LoadJSON decodes a JSON file on top of cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read JSON file")
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "failed to decode JSON file")
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// loadDotEnv reads ./.env if present. Existing environment variables win.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# chatbot configuration file\n")
	b.WriteString("# Generated by chatbot - edit with care\n\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.API.BaseURL),
		})
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.API.TimeoutSecs),
		})
	}
	if c.API.VerifyTimeoutSecs < 1 || c.API.VerifyTimeoutSecs > 60 {
		errs = append(errs, ValidationError{
			Field:   "api.verify_timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 60, got %d", c.API.VerifyTimeoutSecs),
		})
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.rate_limit",
			Message: "must not be negative",
		})
	}

	switch c.Auth.TokenStore {
	case TokenStoreFile, TokenStoreSQLite, TokenStoreMemory:
	default:
		errs = append(errs, ValidationError{
			Field:   "auth.token_store",
			Message: fmt.Sprintf("invalid store '%s', must be one of: file, sqlite, memory", c.Auth.TokenStore),
		})
	}
	switch c.Auth.PasswordPolicy {
	case PolicyMin8, PolicyMin6Symbol:
	default:
		errs = append(errs, ValidationError{
			Field:   "auth.password_policy",
			Message: fmt.Sprintf("invalid policy '%s', must be one of: min8, min6-symbol", c.Auth.PasswordPolicy),
		})
	}

	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero-value fields from Default().
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.VerifyTimeoutSecs == 0 {
		c.API.VerifyTimeoutSecs = defaults.API.VerifyTimeoutSecs
	}
	if c.Auth.TokenStore == "" {
		c.Auth.TokenStore = defaults.Auth.TokenStore
	}
	c.Auth.TokenStore = strings.ToLower(c.Auth.TokenStore)
	if c.Auth.PasswordPolicy == "" {
		c.Auth.PasswordPolicy = defaults.Auth.PasswordPolicy
	}
	c.Auth.PasswordPolicy = strings.ToLower(c.Auth.PasswordPolicy)
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CHATBOT_API_URL: overrides api.base_url
//   - CHATBOT_TIMEOUT: overrides api.timeout_secs
//   - CHATBOT_TOKEN_STORE: overrides auth.token_store
//   - CHATBOT_PASSWORD_POLICY: overrides auth.password_policy
//   - CHATBOT_LOG_LEVEL: overrides log.level
//   - NO_COLOR: set to anything to disable colors
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHATBOT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CHATBOT_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("CHATBOT_TOKEN_STORE"); v != "" {
		c.Auth.TokenStore = v
	}
	if v := os.Getenv("CHATBOT_PASSWORD_POLICY"); v != "" {
		c.Auth.PasswordPolicy = v
	}
	if v := os.Getenv("CHATBOT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.UI.NoColor = true
	}
}

// String returns the config as indented JSON for `chatbot config show`.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
