// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads polishit's optional configuration file.
//
// Configuration is resolved in this order (later wins):
//   - Built-in defaults
//   - ~/.polishit/config.toml
//   - Environment variables (POLISHIT_*)
//
// The API key is never stored here; it lives in the OS keyring.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/jeranaias/polishit/internal/credentials"
	"github.com/jeranaias/polishit/internal/polish"
	"github.com/jeranaias/polishit/internal/util"
)

// CurrentVersion is written into newly saved config files.
const CurrentVersion = "1"

const (
	dirName  = ".polishit"
	fileName = "config.toml"
	logName  = "polishit.log"

	// MaxTimeoutSecs bounds cloud.timeout_secs.
	MaxTimeoutSecs = 600
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete polishit configuration.
type Config struct {
	Version string `toml:"version"`

	Cloud   CloudConfig   `toml:"cloud"`
	Keyring KeyringConfig `toml:"keyring"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// CloudConfig configures the OpenRouter endpoint.
type CloudConfig struct {
	// BaseURL is the API root; /chat/completions is appended.
	BaseURL string `toml:"base_url"`
	// Referer is sent as the HTTP-Referer header.
	Referer string `toml:"referer"`
	// TimeoutSecs bounds a whole request.
	TimeoutSecs int `toml:"timeout_secs"`
	// FreeTierKey replaces the built-in access key used for free models.
	FreeTierKey string `toml:"free_tier_key,omitempty"`
}

// KeyringConfig selects the keyring namespace.
type KeyringConfig struct {
	Service string `toml:"service"`
}

// LogConfig configures the log file.
type LogConfig struct {
	// Level is one of debug, info, warn, error, disabled.
	Level string `toml:"level"`
	// File is the log path. Empty means ~/.polishit/polishit.log.
	File string `toml:"file,omitempty"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	// Theme is auto, dark or light.
	Theme string `toml:"theme"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Cloud: CloudConfig{
			BaseURL:     polish.DefaultBaseURL,
			Referer:     polish.DefaultReferer,
			TimeoutSecs: int(polish.DefaultTimeout / time.Second),
		},
		Keyring: KeyringConfig{
			Service: credentials.DefaultService,
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Cloud.TimeoutSecs) * time.Second
}

// LogLevel parses Log.Level. Invalid values map to info.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil || c.Log.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// LogFile returns the configured log path or the default one.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logName), nil
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the polishit configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// ConfigPath returns the path of the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// ensureSecurePermissions narrows a config file to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads ~/.polishit/config.toml when it exists, then applies
// environment overrides and validates. A missing file is not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		path = ""
	}
	return LoadOptional(path)
}

// LoadOptional is LoadFromPath for a file that may not exist; without it
// the defaults are used.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads the TOML file at path with overrides and validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the file at path over cfg. Keys absent from the file
// keep the values already in cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return ValidationError{Field: keys[0], Message: "unknown key (" + strings.Join(keys, ", ") + ")"}
	}
	return nil
}

// SaveTOML writes cfg to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# polishit configuration file\n")
	buf.WriteString("# The OpenRouter API key is kept in the OS keyring, not here.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid setting.
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

// Validate checks every setting and returns ValidateErrors, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Cloud.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "cloud.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[/path]", c.Cloud.BaseURL),
		})
	}

	if strings.TrimSpace(c.Cloud.Referer) == "" {
		errs = append(errs, ValidationError{Field: "cloud.referer", Message: "must not be empty"})
	}

	if c.Cloud.TimeoutSecs <= 0 || c.Cloud.TimeoutSecs > MaxTimeoutSecs {
		errs = append(errs, ValidationError{
			Field:   "cloud.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", MaxTimeoutSecs, c.Cloud.TimeoutSecs),
		})
	}

	if strings.TrimSpace(c.Keyring.Service) == "" {
		errs = append(errs, ValidationError{Field: "keyring.service", Message: "must not be empty"})
	}

	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
			errs = append(errs, ValidationError{
				Field:   "log.level",
				Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error, disabled", c.Log.Level),
			})
		}
	}

	switch strings.ToLower(c.UI.Theme) {
	case "", "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies POLISHIT_* environment variables:
//   - POLISHIT_BASE_URL: cloud.base_url
//   - POLISHIT_REFERER: cloud.referer
//   - POLISHIT_TIMEOUT: cloud.timeout_secs (seconds, or a Go duration like "90s")
//   - POLISHIT_FREE_TIER_KEY: cloud.free_tier_key
//   - POLISHIT_KEYRING_SERVICE: keyring.service
//   - POLISHIT_LOG_LEVEL: log.level
//   - POLISHIT_LOG_FILE: log.file
//   - POLISHIT_THEME: ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("POLISHIT_BASE_URL"); v != "" {
		c.Cloud.BaseURL = v
	}
	if v := os.Getenv("POLISHIT_REFERER"); v != "" {
		c.Cloud.Referer = v
	}
	if v := os.Getenv("POLISHIT_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Cloud.TimeoutSecs = secs
		} else if d, err := time.ParseDuration(v); err == nil {
			c.Cloud.TimeoutSecs = int(d / time.Second)
		} else {
			// Leave an obviously invalid value so Validate reports it.
			c.Cloud.TimeoutSecs = -1
		}
	}
	if v := os.Getenv("POLISHIT_FREE_TIER_KEY"); v != "" {
		c.Cloud.FreeTierKey = v
	}
	if v := os.Getenv("POLISHIT_KEYRING_SERVICE"); v != "" {
		c.Keyring.Service = v
	}
	if v := os.Getenv("POLISHIT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("POLISHIT_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("POLISHIT_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the config as TOML with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Cloud.FreeTierKey != "" {
		safe.Cloud.FreeTierKey = "[REDACTED]"
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(safe); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
