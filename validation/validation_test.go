package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/kvrest/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("bucket", "my-bucket")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("bucket", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}
}

func TestValidatorPrefix(t *testing.T) {
	if New().Prefix("endpoint", "/buckets", "/").HasErrors() {
		t.Error("expected /buckets to pass")
	}
	v := New().Prefix("endpoint", "buckets", "/")
	if !v.HasErrors() {
		t.Fatal("expected error for missing prefix")
	}
	if !strings.Contains(v.Errors()[0].Message, `"/"`) {
		t.Errorf("unexpected message %q", v.Errors()[0].Message)
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"GET", "PUT", "POST", "DELETE"}
	if New().OneOf("method", "POST", allowed).HasErrors() {
		t.Error("expected POST to be allowed")
	}
	v := New().OneOf("method", "PATCH", allowed)
	if !v.HasErrors() {
		t.Fatal("expected PATCH to be rejected")
	}
	if !strings.Contains(v.Errors()[0].Message, "GET, PUT, POST, DELETE") {
		t.Errorf("unexpected message %q", v.Errors()[0].Message)
	}
	if !New().OneOf("method", "", allowed).HasErrors() {
		t.Error("expected empty value to be rejected")
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil {
		t.Error("expected nil AppError without errors")
	}
	if New().Err() != nil {
		t.Error("expected nil error without errors")
	}

	v := New().Required("bucket", "").Required("key", "")
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "bucket: is required") || !strings.Contains(appErr.Message, "key: is required") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected two field errors, got %v", appErr.Details["fields"])
	}
}

func TestRequiredFunc(t *testing.T) {
	if err := Required("api_key", "secret"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Required("api_key", ""); err == nil {
		t.Error("expected error for empty value")
	}
}

type testConfig struct {
	APIKey  string `mapstructure:"api_key" validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,http_url"`
}

func TestStructValidateValid(t *testing.T) {
	cfg := testConfig{APIKey: "k", BaseURL: "https://kvrest.dev/api"}
	if err := Validate(cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStructValidateMissingField(t *testing.T) {
	err := Validate(testConfig{BaseURL: "https://kvrest.dev/api"})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "api_key: is required") {
		t.Errorf("expected mapstructure field name in message, got %q", appErr.Message)
	}
}

func TestStructValidateInvalidURL(t *testing.T) {
	err := Validate(testConfig{APIKey: "k", BaseURL: "not a url"})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "base_url") {
		t.Errorf("expected base_url in message, got %q", appErr.Message)
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("BaseURL"); got != "base_u_r_l" {
		t.Errorf("toSnakeCase(BaseURL) = %q", got)
	}
	if got := toSnakeCase("Timeout"); got != "timeout" {
		t.Errorf("toSnakeCase(Timeout) = %q", got)
	}
}
