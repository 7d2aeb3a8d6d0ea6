package httpclient

import (
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config configures the HTTP transport.
type Config struct {
	// BaseURL is prepended verbatim to every request path.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each request including reading the body. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth is applied to every request unless the request overrides it.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// TLS configures the transport's TLS settings.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Transport replaces the default round tripper. Mostly useful in tests.
	Transport http.RoundTripper `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
