package kvrest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/kvrest/errors"
	"github.com/kbukum/kvrest/httpclient"
	"github.com/kbukum/kvrest/observability"
	"github.com/kbukum/kvrest/security"
	"github.com/kbukum/kvrest/validation"
)

// HeaderMasterKey authenticates admin routes.
const HeaderMasterKey = "MASTER-API-KEY"

// AdminConfig configures an AdminClient.
type AdminConfig struct {
	// MasterKey is sent in the MASTER-API-KEY header.
	MasterKey string `yaml:"master_key" mapstructure:"master_key" validate:"required"`
	// APIKey is sent in the API-KEY header. The service rejects any request
	// without one, admin routes included. Defaults to MasterKey.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// BaseURL is the service root. Admin routes live at BaseURL + "/admin",
	// beside the key-value API rather than under it.
	BaseURL string              `yaml:"base_url" mapstructure:"base_url" validate:"required,http_url"`
	Timeout time.Duration       `yaml:"timeout" mapstructure:"timeout"`
	TLS     *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// AdminBaseURL derives the service root from a key-value API base URL
// by dropping a trailing "/api".
func AdminBaseURL(baseURL string) string {
	return strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/api")
}

// ApplyDefaults fills in zero-value fields.
func (c *AdminConfig) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultAdminBaseURL
	}
	if c.APIKey == "" {
		c.APIKey = c.MasterKey
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks the configuration after defaults are applied.
func (c *AdminConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return validateTLS(c.TLS)
}

// AdminClient provisions key-value stores and rotates their API keys.
// It never changes an existing Client: build a new one with the returned key.
type AdminClient struct {
	cfg AdminConfig
	t   *transport
}

// NewAdmin validates cfg and builds an AdminClient.
func NewAdmin(cfg AdminConfig, opts ...Option) (*AdminClient, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t, err := newTransport(transportConfig{
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		tls:     cfg.TLS,
		headers: map[string]string{
			HeaderAPIKey:      cfg.APIKey,
			HeaderContentType: ContentTypeJSON,
		},
		auth: httpclient.APIKeyAuthHeader(cfg.MasterKey, HeaderMasterKey),
		span: observability.SpanAdmin,
	}, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	return &AdminClient{cfg: cfg, t: t}, nil
}

// Close releases idle connections.
func (a *AdminClient) Close() { a.t.http.Close() }

// CreateKV provisions a store named name and returns its API key.
// A name that already exists fails with a 409 *StatusError.
func (a *AdminClient) CreateKV(ctx context.Context, name string) (string, error) {
	return a.keyRequest(ctx, "/admin/create_kv", name)
}

// ChangeAPIKey issues a new API key for the store named name. The old key
// stops working. An unknown name fails with a 404 *StatusError.
func (a *AdminClient) ChangeAPIKey(ctx context.Context, name string) (string, error) {
	return a.keyRequest(ctx, "/admin/change_api_key", name)
}

type adminRequest struct {
	Name string `json:"name"`
}

type adminResponse struct {
	APIKey string `json:"api_key"`
}

func (a *AdminClient) keyRequest(ctx context.Context, endpoint, name string) (string, error) {
	if err := validation.Required("name", name); err != nil {
		return "", err
	}
	body, err := json.Marshal(adminRequest{Name: name})
	if err != nil {
		return "", errors.Internal(err)
	}

	res, err := a.t.send(ctx, httpclient.Request{Method: http.MethodPut, Path: endpoint, Body: body})
	if err != nil {
		return "", err
	}

	var out adminResponse
	if err := res.Into(&out); err != nil {
		return "", err
	}
	if out.APIKey == "" {
		return "", &DecodeError{Raw: res.Raw, Err: errMissingEnvelope("api_key")}
	}
	return out.APIKey, nil
}
