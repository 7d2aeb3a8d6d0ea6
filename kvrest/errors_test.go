package kvrest

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kbukum/kvrest/errors"
	"github.com/kbukum/kvrest/httpclient"
)

func TestStatusError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &StatusError{StatusCode: 409, Body: []byte("Name already exists"), Method: "PUT", Endpoint: "/admin/create_kv"})

	if !IsConflict(err) || IsNotFound(err) || IsUnauthorized(err) {
		t.Error("status helpers should see through wrapping")
	}
	se, ok := AsStatusError(err)
	if !ok {
		t.Fatal("expected StatusError")
	}
	if msg := se.Error(); !strings.Contains(msg, "HTTP 409") || !strings.Contains(msg, "Name already exists") {
		t.Errorf("unexpected message %q", msg)
	}
	if _, ok := AsStatusError(stderrors.New("x")); ok {
		t.Error("plain error is not a StatusError")
	}
	if !IsUnauthorized(&StatusError{StatusCode: 403}) {
		t.Error("403 counts as unauthorized")
	}
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
	}{
		{"not found", &StatusError{StatusCode: 404, Endpoint: "/b/k"}, errors.ErrCodeNotFound},
		{"conflict", &StatusError{StatusCode: 409}, errors.ErrCodeAlreadyExists},
		{"unauthorized", &StatusError{StatusCode: 401, Body: []byte("Missing API key")}, errors.ErrCodeUnauthorized},
		{"server", &StatusError{StatusCode: 502}, errors.ErrCodeExternalService},
		{"decode", &DecodeError{Raw: []byte("x"), Err: stderrors.New("bad")}, errors.ErrCodeUndecodable},
		{"empty", ErrEmptyResult, errors.ErrCodeUndecodable},
		{"timeout", httpclient.NewTimeoutError(context.DeadlineExceeded), errors.ErrCodeTimeout},
		{"canceled", httpclient.NewCanceledError(context.Canceled), errors.ErrCodeCanceled},
		{"connection", httpclient.NewConnectionError(stderrors.New("refused")), errors.ErrCodeConnectionFailed},
		{"input passthrough", errors.MissingField("bucket"), errors.ErrCodeMissingField},
		{"other", stderrors.New("?"), errors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			if appErr.Code != tt.code {
				t.Errorf("code = %s, want %s", appErr.Code, tt.code)
			}
		})
	}
	if ToAppError(nil) != nil {
		t.Error("nil maps to nil")
	}
	if !ToAppError(&StatusError{StatusCode: 503}).Retryable {
		t.Error("5xx should be marked retryable")
	}
}
