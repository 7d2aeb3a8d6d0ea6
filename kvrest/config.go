package kvrest

import (
	"time"

	"github.com/kbukum/kvrest/errors"
	"github.com/kbukum/kvrest/security"
	"github.com/kbukum/kvrest/validation"
)

const (
	// DefaultBaseURL is the hosted service's key-value API.
	DefaultBaseURL = "https://kvrest.dev/api"
	// DefaultAdminBaseURL is the hosted service root, where admin routes live.
	DefaultAdminBaseURL = "https://kvrest.dev"
	// DefaultTimeout bounds each request.
	DefaultTimeout = 30 * time.Second
)

// Config configures a Client. It is copied at construction.
type Config struct {
	// APIKey is sent verbatim in the API-KEY header of every request.
	APIKey string `yaml:"api_key" mapstructure:"api_key" validate:"required"`

	// BaseURL is prepended to every endpoint without normalization,
	// so it should not end in "/".
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,http_url"`

	// Timeout bounds each request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// TLS configures a private CA or client certificate.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return validateTLS(c.TLS)
}

func validateTLS(tls *security.TLSConfig) error {
	if err := tls.Validate(); err != nil {
		return errors.InvalidInput("tls", err.Error()).WithCause(err)
	}
	return nil
}
