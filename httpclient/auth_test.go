package httpclient

import (
	"net/http"
	"testing"
)

func TestBearerAuth(t *testing.T) {
	auth := BearerAuth("my-token")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("got %q, want %q", got, "Bearer my-token")
	}
}

func TestAPIKeyAuth_DefaultHeader(t *testing.T) {
	auth := APIKeyAuth("secret-key")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("X-API-Key"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}
}

func TestAPIKeyAuthHeader_CustomName(t *testing.T) {
	auth := APIKeyAuthHeader("secret-key", "API-KEY")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("API-KEY"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}
	if auth.HeaderName() != "API-KEY" {
		t.Errorf("HeaderName() = %q", auth.HeaderName())
	}
}

func TestAPIKeyAuth_EmptyKeyStillSent(t *testing.T) {
	auth := APIKeyAuthHeader("", "API-KEY")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if _, ok := req.Header["Api-Key"]; !ok {
		t.Error("expected API-KEY header to be present even when empty")
	}
}

func TestNilAuth(t *testing.T) {
	var auth *AuthConfig
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if auth.HeaderName() != "" {
		t.Error("nil auth should have no header name")
	}
}

func TestAuthNone(t *testing.T) {
	auth := &AuthConfig{Type: AuthNone}
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if len(req.Header) != 0 {
		t.Errorf("AuthNone should not set headers, got %v", req.Header)
	}
}
