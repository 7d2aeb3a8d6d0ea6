package httpclient

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Do_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/bucket/key" {
			t.Errorf("expected /api/bucket/key, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"a":1}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/api"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/bucket/key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() || resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"a":1}` {
		t.Errorf("unexpected body %q", resp.Body)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("unexpected headers %v", resp.Headers)
	}
}

func TestClient_Do_BodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("API-KEY") != "k" {
			t.Errorf("expected API-KEY=k, got %q", r.Header.Get("API-KEY"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected json content type, got %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Request-ID") != "abc" {
			t.Errorf("expected per-request header, got %q", r.Header.Get("X-Request-ID"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"x":1}` {
			t.Errorf("unexpected request body %q", body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL,
		Auth:    APIKeyAuthHeader("k", "API-KEY"),
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := c.Do(context.Background(), Request{
		Method:  http.MethodPut,
		Path:    "/b/k",
		Headers: map[string]string{"X-Request-ID": "abc"},
		Body:    []byte(`{"x":1}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
}

func TestClient_Do_NilBodySendsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("expected empty body, got %q", body)
		}
		if r.ContentLength > 0 {
			t.Errorf("expected no content length, got %d", r.ContentLength)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	if _, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/buckets"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_RequestAuthOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("MASTER-API-KEY") != "m" {
			t.Errorf("expected override header, got %v", r.Header)
		}
		if r.Header.Get("API-KEY") != "" {
			t.Errorf("client-level auth should be replaced")
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Auth: APIKeyAuthHeader("k", "API-KEY")})
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPut,
		Path:   "/admin/create_kv",
		Auth:   APIKeyAuthHeader("m", "MASTER-API-KEY"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_ErrorStatusIsNotAnError(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("nope"))
		}))
		c, _ := New(Config{BaseURL: srv.URL})
		resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
		srv.Close()
		if err != nil {
			t.Fatalf("status %d: unexpected error %v", status, err)
		}
		if resp.StatusCode != status || !resp.IsError() || string(resp.Body) != "nope" {
			t.Errorf("status %d: unexpected response %+v", status, resp)
		}
	}
}

func TestClient_Do_SingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, _ = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", calls)
	}
}

func TestClient_Do_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	c, _ := New(Config{BaseURL: "http://" + addr})
	_, err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if IsTimeout(err) {
		t.Error("connection error should not be a timeout")
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestClient_Do_ContextDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		ctx      func() (context.Context, context.CancelFunc)
		wantCode ErrorCode
		wantErr  error
	}{
		{
			name: "canceled before send",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			wantCode: ErrCodeCanceled,
			wantErr:  context.Canceled,
		},
		{
			name: "canceled in flight",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(50*time.Millisecond, cancel)
				return ctx, cancel
			},
			wantCode: ErrCodeCanceled,
			wantErr:  context.Canceled,
		},
		{
			name: "deadline exceeded",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 50*time.Millisecond)
			},
			wantCode: ErrCodeTimeout,
			wantErr:  context.DeadlineExceeded,
		},
	}

	c, _ := New(Config{BaseURL: srv.URL})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if e.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", e.Code, tt.wantCode)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected wrapped %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClient_Do_InvalidMethod(t *testing.T) {
	c, _ := New(Config{BaseURL: "http://example.com"})
	_, err := c.Do(context.Background(), Request{Method: "BAD METHOD", Path: "/"})
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClient_URL_LiteralJoin(t *testing.T) {
	c, _ := New(Config{BaseURL: "https://kvrest.dev/api"})
	if got := c.URL("/a b/c?d"); got != "https://kvrest.dev/api/a b/c?d" {
		t.Errorf("URL() = %q", got)
	}
}

func TestClient_CustomTransport(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTeapot,
			Header:     http.Header{},
			Body:       io.NopCloser(http.NoBody),
			Request:    r,
		}, nil
	})
	c, _ := New(Config{BaseURL: "http://unused", Transport: rt})
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("expected 418, got %d", resp.StatusCode)
	}
	c.Close()
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
