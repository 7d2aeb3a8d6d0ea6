package main

import (
	"time"

	"github.com/kbukum/kvrest/config"
	"github.com/kbukum/kvrest/kvrest"
	"github.com/kbukum/kvrest/observability"
	"github.com/kbukum/kvrest/security"
	"github.com/kbukum/kvrest/version"
)

const serviceName = "kvrest"

// Settings is the CLI configuration assembled from config.yml, .env,
// the environment and flags.
type Settings struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	KVRest               ClientSettings    `yaml:"kvrest" mapstructure:"kvrest"`
	Telemetry            TelemetrySettings `yaml:"telemetry" mapstructure:"telemetry"`
}

// ClientSettings configures both the data-plane and the admin client.
type ClientSettings struct {
	APIKey    string              `yaml:"api_key" mapstructure:"api_key"`
	MasterKey string              `yaml:"master_key" mapstructure:"master_key"`
	BaseURL   string              `yaml:"base_url" mapstructure:"base_url"`
	AdminURL  string              `yaml:"admin_url" mapstructure:"admin_url"`
	Timeout   time.Duration       `yaml:"timeout" mapstructure:"timeout"`
	TLS       *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// TelemetrySettings enables OTLP export when Endpoint is set.
type TelemetrySettings struct {
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// flagKeys maps CLI flags to config keys.
var flagKeys = map[string]string{
	"api-key":       "kvrest.api_key",
	"base-url":      "kvrest.base_url",
	"timeout":       "kvrest.timeout",
	"log-level":     "logging.level",
	"log-format":    "logging.format",
	"otel-endpoint": "telemetry.endpoint",
}

// ApplyDefaults keeps the CLI quiet unless asked: logging defaults to warn.
func (s *Settings) ApplyDefaults() {
	if s.Name == "" {
		s.Name = serviceName
	}
	if s.Version == "" {
		s.Version = version.GetShortVersion()
	}
	if s.Logging.Level == "" && !s.Debug {
		s.Logging.Level = "warn"
	}
	s.ServiceConfig.ApplyDefaults()
	if s.KVRest.BaseURL == "" {
		s.KVRest.BaseURL = kvrest.DefaultBaseURL
	}
	if s.KVRest.AdminURL == "" {
		s.KVRest.AdminURL = kvrest.AdminBaseURL(s.KVRest.BaseURL)
	}
	if s.KVRest.Timeout <= 0 {
		s.KVRest.Timeout = kvrest.DefaultTimeout
	}
	if s.Telemetry.SampleRate <= 0 {
		s.Telemetry.SampleRate = 1.0
	}
}

func (s *Settings) clientConfig() kvrest.Config {
	return kvrest.Config{
		APIKey:  s.KVRest.APIKey,
		BaseURL: s.KVRest.BaseURL,
		Timeout: s.KVRest.Timeout,
		TLS:     s.KVRest.TLS,
	}
}

func (s *Settings) adminConfig() kvrest.AdminConfig {
	return kvrest.AdminConfig{
		MasterKey: s.KVRest.MasterKey,
		APIKey:    s.KVRest.APIKey,
		BaseURL:   s.KVRest.AdminURL,
		Timeout:   s.KVRest.Timeout,
		TLS:       s.KVRest.TLS,
	}
}

func (s *Settings) tracerConfig() observability.TracerConfig {
	cfg := observability.DefaultTracerConfig(s.Name)
	cfg.ServiceVersion = s.Version
	cfg.Environment = s.Environment
	cfg.Endpoint = s.Telemetry.Endpoint
	cfg.Insecure = s.Telemetry.Insecure
	cfg.SampleRate = s.Telemetry.SampleRate
	return cfg
}

func (s *Settings) meterConfig() observability.MeterConfig {
	cfg := observability.DefaultMeterConfig(s.Name)
	cfg.ServiceVersion = s.Version
	cfg.Environment = s.Environment
	cfg.Endpoint = s.Telemetry.Endpoint
	cfg.Insecure = s.Telemetry.Insecure
	if s.Telemetry.Interval > 0 {
		cfg.Interval = s.Telemetry.Interval
	}
	return cfg
}
