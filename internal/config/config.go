// Package config loads the backoffice configuration: built-in defaults, then
// the YAML file, then BACKOFFICE_* environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	boerrors "github.com/felixgeelhaar/backoffice/internal/errors"
	"github.com/felixgeelhaar/backoffice/internal/log"
	"github.com/felixgeelhaar/backoffice/internal/platform"
	"github.com/felixgeelhaar/backoffice/internal/session"
	"github.com/felixgeelhaar/backoffice/internal/telemetry"
)

// Environment variables that override the file.
const (
	EnvAPIURL       = "BACKOFFICE_API_URL"
	EnvAPITimeout   = "BACKOFFICE_API_TIMEOUT"
	EnvDurableDir   = "BACKOFFICE_DURABLE_DIR"
	EnvEphemeralDir = "BACKOFFICE_EPHEMERAL_DIR"
	EnvLogLevel     = "BACKOFFICE_LOG_LEVEL"
	EnvLogFormat    = "BACKOFFICE_LOG_FORMAT"
	EnvTrace        = "BACKOFFICE_TRACE"
)

// Config is the backoffice configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// APIConfig locates the back-office API.
type APIConfig struct {
	BaseURL   string             `yaml:"base_url"`
	Timeout   time.Duration      `yaml:"timeout"`
	Endpoints platform.Endpoints `yaml:"endpoints"`
}

// SessionConfig locates the two session scopes.
type SessionConfig struct {
	Key          string `yaml:"key"`
	DurableDir   string `yaml:"durable_dir"`
	EphemeralDir string `yaml:"ephemeral_dir"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text", "json"
	Output string `yaml:"output"` // "stderr", "stdout"
}

// TelemetryConfig controls request tracing.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Exporter   string  `yaml:"exporter"` // "stdout", "otlp", "none"
	Endpoint   string  `yaml:"endpoint"`
	SampleRate float64 `yaml:"sample_rate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   platform.DefaultBaseURL,
			Timeout:   platform.DefaultTimeout,
			Endpoints: platform.DefaultEndpoints(),
		},
		Session: SessionConfig{
			Key:          session.DefaultKey,
			DurableDir:   session.DefaultDurableDir(),
			EphemeralDir: session.DefaultEphemeralDir(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
		Telemetry: TelemetryConfig{
			Exporter:   telemetry.ExporterStdout,
			SampleRate: 1.0,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/backoffice/config.yaml.
func DefaultPath() string {
	return filepath.Join(session.DefaultDurableDir(), "config.yaml")
}

// Load reads path (DefaultPath when empty) over the defaults and applies the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, boerrors.NewFileUnmarshalError(path, "YAML", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, boerrors.Wrap(boerrors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read config file %s", path), err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvAPITimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return boerrors.Wrap(boerrors.ErrCodeConfigParse, fmt.Sprintf("%s must be a duration such as 30s", EnvAPITimeout), err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv(EnvDurableDir); v != "" {
		c.Session.DurableDir = v
	}
	if v := os.Getenv(EnvEphemeralDir); v != "" {
		c.Session.EphemeralDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvTrace); v != "" {
		switch strings.ToLower(v) {
		case "0", "false", "off", telemetry.ExporterNone:
			c.Telemetry.Enabled = false
		case "1", "true", "on":
			c.Telemetry.Enabled = true
		default:
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = strings.ToLower(v)
		}
	}
	return nil
}

// fillDefaults restores fields a file explicitly blanked.
func (c *Config) fillDefaults() {
	d := Default()
	if c.API.Timeout == 0 {
		c.API.Timeout = d.API.Timeout
	}
	if c.API.Endpoints.AdminLogin == "" {
		c.API.Endpoints.AdminLogin = d.API.Endpoints.AdminLogin
	}
	if c.API.Endpoints.DeveloperLogin == "" {
		c.API.Endpoints.DeveloperLogin = d.API.Endpoints.DeveloperLogin
	}
	if c.API.Endpoints.Profile == "" {
		c.API.Endpoints.Profile = d.API.Endpoints.Profile
	}
	if c.Session.Key == "" {
		c.Session.Key = d.Session.Key
	}
	if c.Session.DurableDir == "" {
		c.Session.DurableDir = d.Session.DurableDir
	}
	if c.Session.EphemeralDir == "" {
		c.Session.EphemeralDir = d.Session.EphemeralDir
	}
	if c.Telemetry.Exporter == "" {
		c.Telemetry.Exporter = d.Telemetry.Exporter
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return boerrors.NewConfigInvalidError("api.base_url is empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return boerrors.NewConfigInvalidError(fmt.Sprintf("api.base_url %q must be an http(s) URL", c.API.BaseURL))
	}
	if c.API.Timeout < 0 {
		return boerrors.NewConfigInvalidError("api.timeout must not be negative")
	}
	for name, p := range map[string]string{
		"api.endpoints.admin_login":     c.API.Endpoints.AdminLogin,
		"api.endpoints.developer_login": c.API.Endpoints.DeveloperLogin,
		"api.endpoints.profile":         c.API.Endpoints.Profile,
	} {
		if !strings.HasPrefix(p, "/") {
			return boerrors.NewConfigInvalidError(fmt.Sprintf("%s %q must start with /", name, p))
		}
	}
	if c.Session.DurableDir == c.Session.EphemeralDir {
		return boerrors.NewConfigInvalidError("session.durable_dir and session.ephemeral_dir must differ")
	}
	if strings.ContainsAny(c.Session.Key, `/\`) {
		return boerrors.NewConfigInvalidError("session.key must not contain path separators")
	}
	if _, ok := log.LookupLevel(c.Logging.Level); !ok {
		return boerrors.NewConfigInvalidError(fmt.Sprintf("logging.level %q is not one of debug, info, warn, error, off", c.Logging.Level))
	}
	if err := c.TelemetryConfig().Validate(); err != nil {
		return boerrors.NewConfigInvalidError(err.Error())
	}
	return nil
}

// LoggerConfig converts the logging section.
func (c *Config) LoggerConfig() log.Config {
	return log.Config{
		Level:  log.ParseLevel(c.Logging.Level),
		Format: log.ParseFormat(c.Logging.Format),
		Output: log.ParseOutput(c.Logging.Output),
	}
}

// TelemetryConfig converts the telemetry section.
func (c *Config) TelemetryConfig() telemetry.Config {
	tc := telemetry.DefaultConfig()
	tc.Enabled = c.Telemetry.Enabled
	tc.Exporter = c.Telemetry.Exporter
	tc.Endpoint = c.Telemetry.Endpoint
	tc.SampleRate = c.Telemetry.SampleRate
	return tc
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes c to path with mode 0600, creating the directory.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return boerrors.Wrap(boerrors.ErrCodeDirectoryFailed, "failed to create config directory", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return boerrors.Wrap(boerrors.ErrCodeFileWriteFailed, "failed to write config", err)
	}
	return nil
}
