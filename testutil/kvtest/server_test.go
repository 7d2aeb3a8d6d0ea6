package kvtest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/kvrest/component"
	"github.com/kbukum/kvrest/testutil"
)

func do(t *testing.T, srv *Server, method, path, apiKey, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.BaseURL()+path, r)
	if err != nil {
		t.Fatal(err)
	}
	if apiKey != "" {
		req.Header.Set("API-KEY", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestServer_Lifecycle(t *testing.T) {
	srv := NewServer(Options{APIKey: "k"})
	ctx := context.Background()
	if h := srv.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %v", h.Status)
	}
	if srv.BaseURL() != "" {
		t.Error("expected empty base URL before start")
	}

	testutil.T(t).Setup(srv)
	if h := srv.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %v", h.Status)
	}
	if !strings.HasSuffix(srv.BaseURL(), "/api") {
		t.Errorf("expected /api base path, got %q", srv.BaseURL())
	}
	if err := srv.Start(ctx); err == nil {
		t.Error("expected error on double start")
	}
}

func TestServer_BucketAndValueFlow(t *testing.T) {
	srv := NewServer(Options{APIKey: "k"})
	testutil.T(t).Setup(srv)

	steps := []struct {
		method, path, body string
		wantStatus         int
		wantBody           string
	}{
		{http.MethodPut, "/b1", "", 200, ""},
		{http.MethodPut, "/b2", "", 200, ""},
		{http.MethodPost, "/buckets", "", 200, `["b1","b2"]`},
		{http.MethodPut, "/b1/k", `{"message":"hi"}`, 200, ""},
		{http.MethodGet, "/b1/k", "", 200, `{"message":"hi"}`},
		{http.MethodGet, "/b1", "", 200, `["k"]`},
		{http.MethodPut, "/b1/bad", "not json", 400, "invalid JSON body"},
		{http.MethodGet, "/b1/missing", "", 404, "Key not found"},
		{http.MethodDelete, "/b1/k", "", 200, ""},
		{http.MethodGet, "/b1/k", "", 404, "Key not found"},
		{http.MethodDelete, "/b2", "", 200, ""},
		{http.MethodPost, "/buckets", "", 200, `["b1"]`},
		{http.MethodGet, "/nope", "", 404, "Bucket not found"},
		{http.MethodPut, "/nope/k", `1`, 404, "Bucket not found"},
	}
	for _, st := range steps {
		status, body := do(t, srv, st.method, st.path, "k", st.body)
		if status != st.wantStatus || body != st.wantBody {
			t.Errorf("%s %s: got %d %q, want %d %q", st.method, st.path, status, body, st.wantStatus, st.wantBody)
		}
	}
}

func TestServer_EnvelopeListStyle(t *testing.T) {
	srv := NewServer(Options{APIKey: "k", ListStyle: ListEnvelope})
	testutil.T(t).Setup(srv)

	do(t, srv, http.MethodPut, "/b", "k", "")
	do(t, srv, http.MethodPut, "/b/x", "k", "1")
	if _, body := do(t, srv, http.MethodPost, "/buckets", "k", ""); body != `{"buckets":["b"]}` {
		t.Errorf("unexpected bucket envelope %q", body)
	}
	if _, body := do(t, srv, http.MethodGet, "/b", "k", ""); body != `{"keys":["x"]}` {
		t.Errorf("unexpected key envelope %q", body)
	}
}

func TestServer_APIKey(t *testing.T) {
	srv := NewServer(Options{APIKey: "k"})
	testutil.T(t).Setup(srv)

	if status, body := do(t, srv, http.MethodPost, "/buckets", "", ""); status != 401 || body != "Missing API key" {
		t.Errorf("missing key: got %d %q", status, body)
	}
	if status, _ := do(t, srv, http.MethodPost, "/buckets", "other", ""); status != 401 {
		t.Errorf("unknown key: got %d", status)
	}

	srv.Provision("other")
	if status, body := do(t, srv, http.MethodPost, "/buckets", "other", ""); status != 200 || body != "[]" {
		t.Errorf("provisioned key: got %d %q", status, body)
	}
}

func TestServer_RecordsRequests(t *testing.T) {
	srv := NewServer(Options{APIKey: "k"})
	testutil.T(t).Setup(srv)

	if _, ok := srv.LastRequest(); ok {
		t.Error("expected no requests yet")
	}
	do(t, srv, http.MethodPost, "/buckets", "k", "")
	do(t, srv, http.MethodPut, "/b", "k", "")
	do(t, srv, http.MethodPut, "/b/k", "k", `"v"`)

	reqs := srv.Requests()
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(reqs))
	}
	if reqs[0].Method != http.MethodPost || reqs[0].Path != "/buckets" || len(reqs[0].Body) != 0 {
		t.Errorf("unexpected first request %+v", reqs[0])
	}
	last, _ := srv.LastRequest()
	if last.Path != "/b/k" || string(last.Body) != `"v"` || last.Header.Get("API-KEY") != "k" {
		t.Errorf("unexpected last request %+v", last)
	}
}

func TestServer_Respond(t *testing.T) {
	srv := NewServer(Options{APIKey: "k"})
	testutil.T(t).Setup(srv)

	srv.Respond(http.MethodGet, "/b/k", http.StatusOK, "not json")
	srv.Respond(http.MethodGet, "/unrouted/a/b", http.StatusTeapot, "")

	if status, body := do(t, srv, http.MethodGet, "/b/k", "", ""); status != 200 || body != "not json" {
		t.Errorf("got %d %q", status, body)
	}
	if status, body := do(t, srv, http.MethodGet, "/unrouted/a/b", "", ""); status != http.StatusTeapot || body != "" {
		t.Errorf("got %d %q", status, body)
	}
	if len(srv.Requests()) != 2 {
		t.Errorf("overridden requests should still be recorded")
	}
}

func TestServer_ResetSnapshotRestore(t *testing.T) {
	srv := NewServer(Options{APIKey: "k"})
	h := testutil.T(t)
	h.Setup(srv)

	do(t, srv, http.MethodPut, "/keep", "k", "")
	snap := h.Snapshot(srv)

	do(t, srv, http.MethodPut, "/later", "k", "")
	h.Restore(srv, snap)
	if _, body := do(t, srv, http.MethodPost, "/buckets", "k", ""); body != `["keep"]` {
		t.Errorf("after restore got %q", body)
	}

	srv.Respond(http.MethodPost, "/buckets", 500, "boom")
	h.Reset(srv)
	if _, body := do(t, srv, http.MethodPost, "/buckets", "k", ""); body != "[]" {
		t.Errorf("after reset got %q", body)
	}
	if len(srv.Requests()) != 1 {
		t.Errorf("reset should clear recordings, got %d", len(srv.Requests()))
	}

	if err := srv.Restore(context.Background(), "bogus"); err == nil {
		t.Error("expected error for foreign snapshot")
	}
}

func TestServer_Admin(t *testing.T) {
	srv := NewServer(Options{MasterKey: "master"})
	testutil.T(t).Setup(srv)

	admin := func(url, apiKey, master, body string) (int, string) {
		req, _ := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
		if apiKey != "" {
			req.Header.Set("API-KEY", apiKey)
		}
		if master != "" {
			req.Header.Set("MASTER-API-KEY", master)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(b)
	}
	root := srv.RootURL()

	tests := []struct {
		name           string
		url            string
		apiKey, master string
		body           string
		wantStatus     int
		wantBody       string
	}{
		{"missing api key", root + "/admin/create_kv", "", "master", `{"name":"n"}`, 401, "Missing API key"},
		{"wrong master key", root + "/admin/create_kv", "any", "wrong", `{"name":"n"}`, 401, "Unauthorized"},
		{"missing master key", root + "/admin/create_kv", "any", "", `{"name":"n"}`, 401, "Unauthorized"},
		{"create", root + "/admin/create_kv", "any", "master", `{"name":"n"}`, 200, ""},
		{"duplicate", root + "/admin/create_kv", "any", "master", `{"name":"n"}`, 409, ""},
		{"change unknown", root + "/admin/change_api_key", "any", "master", `{"name":"ghost"}`, 404, ""},
		{"missing name", root + "/admin/create_kv", "any", "master", `{}`, 400, ""},
		{"not under base path", srv.BaseURL() + "/admin/create_kv", "any", "master", `{"name":"m"}`, 401, "Invalid API key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := admin(tt.url, tt.apiKey, tt.master, tt.body)
			if status != tt.wantStatus {
				t.Fatalf("got %d %q, want %d", status, body, tt.wantStatus)
			}
			if tt.wantBody != "" && body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if tt.name == "create" && !strings.Contains(body, `"api_key"`) {
				t.Errorf("expected api_key in %q", body)
			}
		})
	}

	reqs := srv.Requests()
	if first := reqs[0]; first.Path != "/admin/create_kv" || first.URLPath != "/admin/create_kv" {
		t.Errorf("unexpected admin recording %+v", first)
	}
}
