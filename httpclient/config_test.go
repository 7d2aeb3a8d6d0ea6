package httpclient

import (
	"testing"
	"time"

	"github.com/kbukum/kvrest/security"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
}

func TestConfig_ApplyDefaults_PreservesExisting(t *testing.T) {
	cfg := Config{Timeout: 10 * time.Second}
	cfg.ApplyDefaults()
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
}

func TestConfig_Validate_InvalidTimeout(t *testing.T) {
	cfg := Config{Timeout: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestConfig_Validate_InvalidTLS(t *testing.T) {
	cfg := Config{
		Timeout: 10 * time.Second,
		TLS:     &security.TLSConfig{CertFile: "cert.pem"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for mismatched TLS cert/key")
	}
	if _, err := New(cfg); err == nil {
		t.Fatal("New should reject invalid TLS config")
	}
}
