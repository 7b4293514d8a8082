// Package config handles the XDG configuration directory and config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskstore"

	// ConfigFile is the YAML settings filename.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename (google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename (google backend).
	TokenFile = "token.json"
)

// Backend names.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// DefaultTimeout bounds every backend request.
const DefaultTimeout = 10 * time.Second

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	// Backend selects the transport: "rest" or "google".
	Backend string `yaml:"backend"`

	// BaseURL is the root of the todo-lists REST API.
	BaseURL string `yaml:"base_url"`

	// APIKey is sent as the API-KEY header when set.
	APIKey string `yaml:"api_key"`

	// Token is sent as a bearer token when set.
	Token string `yaml:"token"`

	// Timeout bounds each backend request.
	Timeout time.Duration `yaml:"timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// New creates a Config with defaults for the default or specified config
// directory. It does not read the config file; see Load.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:       dir,
		Backend:   BackendREST,
		Timeout:   DefaultTimeout,
		LogLevel:  "info",
		LogFormat: "text",
	}, nil
}

// Load builds a Config from defaults, then config.yaml in the config dir if
// present, then TASKSTORE_* environment variables, and validates the result.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cfg.FilePath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Backend = envStr("TASKSTORE_BACKEND", c.Backend)
	c.BaseURL = envStr("TASKSTORE_BASE_URL", c.BaseURL)
	c.APIKey = envStr("TASKSTORE_API_KEY", c.APIKey)
	c.Token = envStr("TASKSTORE_TOKEN", c.Token)
	c.LogLevel = envStr("TASKSTORE_LOG_LEVEL", c.LogLevel)
	c.LogFormat = envStr("TASKSTORE_LOG_FORMAT", c.LogFormat)
	if v := os.Getenv("TASKSTORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TASKSTORE_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendREST:
		if strings.TrimSpace(c.BaseURL) == "" {
			return fmt.Errorf("base_url must not be empty for the %s backend", BackendREST)
		}
	case BackendGoogle:
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// LogLevelName returns the effective log level, honoring Debug.
func (c *Config) LogLevelName() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
