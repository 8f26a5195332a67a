package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	apperrors "lyriq/internal/app/errors"
)

// ConfigPathEnv points at an optional YAML settings file.
const ConfigPathEnv = "LYRIQ_CONFIG"

// Settings holds process-scoped configuration. It is built once at startup
// and read-only afterwards.
type Settings struct {
	Server ServerSettings `yaml:"server"`
	OpenAI OpenAISettings `yaml:"openai"`
	Log    LogSettings    `yaml:"log"`
}

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	// Zero means no timeout. Transcribing a long file can take minutes.
	ReadTimeoutSec  int `yaml:"read_timeout_sec,omitempty"`
	WriteTimeoutSec int `yaml:"write_timeout_sec,omitempty"`
	IdleTimeoutSec  int `yaml:"idle_timeout_sec,omitempty"`
	// Uploads above this size are spooled to disk while parsing. It is not a size limit.
	MultipartMemoryMB int64 `yaml:"multipart_memory_mb,omitempty"`
}

// OpenAISettings configures the remote service endpoint.
type OpenAISettings struct {
	BaseURL string `yaml:"base_url,omitempty"`
}

// LogSettings configures the logger.
type LogSettings struct {
	Level string `yaml:"level"`
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var (
	validEnvironments = []string{EnvDevelopment, EnvProduction}
	validLogLevels    = []string{"debug", "info", "warn", "error"}
)

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			Host:              "0.0.0.0",
			Port:              "8080",
			Environment:       EnvDevelopment,
			IdleTimeoutSec:    120,
			MultipartMemoryMB: 32,
		},
		Log: LogSettings{Level: "info"},
	}
}

// LoadSettings builds Settings from defaults, the optional YAML file at path
// and finally environment overrides. An empty path skips the file.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		path = os.ExpandEnv(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// ${VAR} references inside the file are expanded before parsing.
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), settings); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	settings.applyEnv()

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) applyEnv() {
	s.Server.Host = getEnvOrDefault("LYRIQ_HOST", s.Server.Host)
	s.Server.Port = getEnvOrDefault("LYRIQ_PORT", s.Server.Port)
	s.Server.Environment = strings.ToLower(getEnvOrDefault("LYRIQ_ENV", s.Server.Environment))
	s.Log.Level = strings.ToLower(getEnvOrDefault("LYRIQ_LOG_LEVEL", s.Log.Level))
	s.OpenAI.BaseURL = getEnvOrDefault("OPENAI_BASE_URL", s.OpenAI.BaseURL)
}

// Validate checks the settings for values the server cannot start with.
func (s *Settings) Validate() error {
	if _, err := strconv.Atoi(s.Server.Port); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "server.port %q is not a number", s.Server.Port)
	}
	if !lo.Contains(validEnvironments, s.Server.Environment) {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "server.environment must be one of %v", validEnvironments)
	}
	if !lo.Contains(validLogLevels, s.Log.Level) {
		return apperrors.Wrapf(apperrors.ErrInvalidConfig, "log.level must be one of %v", validLogLevels)
	}
	if s.Server.ReadTimeoutSec < 0 || s.Server.WriteTimeoutSec < 0 || s.Server.IdleTimeoutSec < 0 {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, "server timeouts must not be negative")
	}
	if s.Server.MultipartMemoryMB <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidConfig, "server.multipart_memory_mb must be positive")
	}
	return nil
}

// Address returns host:port for the listener.
func (s ServerSettings) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s ServerSettings) IsProduction() bool {
	return s.Environment == EnvProduction
}

func (s ServerSettings) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

func (s ServerSettings) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

func (s ServerSettings) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSec) * time.Second
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
