package kvrest

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/kbukum/kvrest/logger"
	"github.com/kbukum/kvrest/testutil"
	"github.com/kbukum/kvrest/testutil/kvtest"
)

const testAPIKey = "test-key"

func startFake(t *testing.T, opts kvtest.Options) *kvtest.Server {
	t.Helper()
	if opts.APIKey == "" {
		opts.APIKey = testAPIKey
	}
	srv := kvtest.NewServer(opts)
	testutil.T(t).Setup(srv)
	return srv
}

func newTestClient(t *testing.T, srv *kvtest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNop())}, opts...)
	c, err := New(Config{APIKey: testAPIKey, BaseURL: srv.BaseURL()}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func bufferLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "kvrest-test", buf)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
