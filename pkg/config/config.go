package config

import (
	"context"
	"encoding/json"
	"time"
	_ "time/tzdata"

	"github.com/knadh/koanf/v2"
	"github.com/techcollege/portal/pkg/version"
)

// Config represents the complete configuration of the portal client.
type Config struct {
	API      APIConfig      `koanf:"api"      validate:"required"`
	CLI      CLIConfig      `koanf:"cli"`
	Runtime  RuntimeConfig  `koanf:"runtime"`
	Schedule ScheduleConfig `koanf:"schedule"`
}

// APIConfig contains the portal REST API connection settings.
type APIConfig struct {
	BaseURL   string          `koanf:"base_url"   validate:"required,url"  env:"PORTAL_API_BASE_URL"`
	Timeout   time.Duration   `koanf:"timeout"    validate:"gt=0"          env:"PORTAL_API_TIMEOUT"`
	Token     SensitiveString `koanf:"token"                               env:"PORTAL_API_TOKEN"     sensitive:"true"`
	UserAgent string          `koanf:"user_agent"                          env:"PORTAL_API_USER_AGENT"`
}

// CLIConfig contains command-line presentation settings.
type CLIConfig struct {
	DefaultFormat string `koanf:"default_format" validate:"oneof=auto json tui" env:"PORTAL_FORMAT"`
	Interactive   bool   `koanf:"interactive"                                 env:"PORTAL_INTERACTIVE"`
	NoColor       bool   `koanf:"no_color"                                    env:"PORTAL_NO_COLOR"`
}

// RuntimeConfig contains logging behavior.
type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level"  validate:"oneof=debug info warn error disabled" env:"PORTAL_LOG_LEVEL"`
	LogJSON   bool   `koanf:"log_json"                                                   env:"PORTAL_LOG_JSON"`
	LogSource bool   `koanf:"log_source"                                                 env:"PORTAL_LOG_SOURCE"`
}

// ScheduleConfig contains the group catalogue and term settings used by the
// schedule views and the calendar export.
type ScheduleConfig struct {
	Groups    []string `koanf:"groups"     validate:"dive,group_code" env:"PORTAL_SCHEDULE_GROUPS"`
	Timezone  string   `koanf:"timezone"   validate:"required,timezone" env:"PORTAL_SCHEDULE_TIMEZONE"`
	TermStart string   `koanf:"term_start" validate:"omitempty,datetime=2006-01-02,monday" env:"PORTAL_SCHEDULE_TERM_START"`
	TermWeeks int      `koanf:"term_weeks" validate:"min=1,max=52" env:"PORTAL_SCHEDULE_TERM_WEEKS"`
}

// Location resolves the configured timezone.
func (s ScheduleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Service defines the configuration loading service.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns the source type that provided a configuration key.
	GetSource(key string) SourceType
}

// Source is a koanf provider that also names the layer it feeds, so the
// loader can report where each key came from. Read returns nested maps.
type Source interface {
	koanf.Provider
	Type() SourceType
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Load loads configuration from defaults and the environment.
func Load(ctx context.Context) (*Config, error) {
	return NewService().Load(ctx)
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8080/api",
			Timeout:   15 * time.Second,
			UserAgent: version.UserAgent(),
		},
		CLI: CLIConfig{
			DefaultFormat: "auto",
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
		Schedule: ScheduleConfig{
			Groups:    []string{},
			Timezone:  "Europe/Moscow",
			TermWeeks: 18,
		},
	}
}

const redacted = "[REDACTED]"

// SensitiveString hides its value from fmt and JSON output.
type SensitiveString string

func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// Value returns the underlying secret.
func (s SensitiveString) Value() string {
	return string(s)
}

func (s SensitiveString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SensitiveString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = SensitiveString(v)
	return nil
}
