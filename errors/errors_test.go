package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_Canceled(t *testing.T) {
	cause := stderrors.New("context canceled")
	err := Canceled("kvrest request", cause)
	if err.Code != ErrCodeCanceled {
		t.Errorf("expected CANCELED, got %s", err.Code)
	}
	if err.Retryable {
		t.Error("CANCELED should not be retryable")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}

func TestAppError_NotFound(t *testing.T) {
	err := NotFound("bucket", "my-bucket")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.Details["resource"] != "bucket" {
		t.Errorf("expected resource=bucket, got %v", err.Details["resource"])
	}
	if err.Details["id"] != "my-bucket" {
		t.Errorf("expected id=my-bucket, got %v", err.Details["id"])
	}

	noID := NotFound("bucket", "")
	if _, ok := noID.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_InvalidInput(t *testing.T) {
	err := InvalidInput("bucket", "must not be empty")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "bucket" {
		t.Errorf("expected field=bucket, got %v", err.Details["field"])
	}
	if !strings.Contains(err.Message, "must not be empty") {
		t.Errorf("unexpected message %q", err.Message)
	}
	if !IsInputCode(err.Code) {
		t.Error("INVALID_INPUT should be an input code")
	}
}

func TestAppError_MissingField(t *testing.T) {
	err := MissingField("api_key")
	if err.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %s", err.Code)
	}
	if !IsInputCode(err.Code) {
		t.Error("MISSING_FIELD should be an input code")
	}
	if IsInputCode(ErrCodeTimeout) {
		t.Error("TIMEOUT should not be an input code")
	}
}

func TestAppError_Undecodable(t *testing.T) {
	cause := fmt.Errorf("invalid character 'o'")
	err := Undecodable([]byte("not json"), cause)
	if err.Details["raw"] != "not json" {
		t.Errorf("expected raw body in details, got %v", err.Details["raw"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}

func TestAppError_ExternalServiceError(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusBadGateway, true},
		{http.StatusNotFound, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := ExternalServiceError("kvrest", tt.status, nil)
			if err.HTTPStatus != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, err.HTTPStatus)
			}
			if err.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v", tt.retryable)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	plain := Validation("bad")
	if plain.Error() != "INVALID_INPUT: bad" {
		t.Errorf("unexpected message %q", plain.Error())
	}

	wrapped := Internal(fmt.Errorf("boom"))
	if !strings.Contains(wrapped.Error(), "cause: boom") {
		t.Errorf("expected cause in message, got %q", wrapped.Error())
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := Validation("bad").WithDetail("a", 1).WithDetails(map[string]any{"b": 2})
	if err.Details["a"] != 1 || err.Details["b"] != 2 {
		t.Errorf("unexpected details %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", MissingField("api_key"))

	if !IsAppError(wrapped) {
		t.Fatal("expected wrapped AppError to be detected")
	}
	appErr, ok := AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeMissingField {
		t.Errorf("expected MISSING_FIELD, got %v", appErr)
	}

	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain error should not convert")
	}
}

func TestAppError_ToResponse(t *testing.T) {
	resp := InvalidInput("key", "must not be empty").ToResponse()
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"code":"INVALID_INPUT"`) {
		t.Errorf("unexpected JSON %s", data)
	}
}
