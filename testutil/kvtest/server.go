package kvtest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kvrest/component"
	"github.com/kbukum/kvrest/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	defaultBasePath = "/api"
	apiKeyHeader    = "API-KEY"
	masterKeyHeader = "MASTER-API-KEY"
)

// ListStyle selects the JSON shape of listing responses.
type ListStyle int

const (
	// ListBare returns a bare JSON array, e.g. ["a","b"].
	ListBare ListStyle = iota
	// ListEnvelope wraps arrays, e.g. {"buckets":["a","b"]}.
	ListEnvelope
)

// Options configures the fake server.
type Options struct {
	// APIKey is a tenant provisioned at start. Empty starts with no tenants.
	APIKey string
	// MasterKey enables the admin routes. Empty rejects every admin call.
	MasterKey string
	// BasePath prefixes the key-value routes. Defaults to "/api". Admin
	// routes are always served from the root.
	BasePath string
	// ListStyle selects the listing response shape.
	ListStyle ListStyle
}

// RecordedRequest is one request as the server received it.
type RecordedRequest struct {
	Method string
	// Path is relative to BasePath for key-value routes, e.g. "/buckets",
	// and the full path otherwise, e.g. "/admin/create_kv".
	Path string
	// URLPath is the path exactly as received.
	URLPath string
	Header  http.Header
	Body    []byte
}

type rawResponse struct {
	status int
	body   string
}

// Server is an in-memory kvrest service. It implements
// testutil.TestComponent.
type Server struct {
	opts Options

	mu        sync.RWMutex
	ts        *httptest.Server
	tenants   map[string]*store
	names     map[string]string
	requests  []RecordedRequest
	overrides map[string]rawResponse
}

var _ component.Component = (*Server)(nil)
var _ testutil.TestComponent = (*Server)(nil)

// NewServer creates a fake server. Call Start (or testutil.T(t).Setup) before use.
func NewServer(opts Options) *Server {
	if opts.BasePath == "" {
		opts.BasePath = defaultBasePath
	}
	s := &Server{opts: opts}
	s.resetState()
	return s
}

func (s *Server) resetState() {
	s.tenants = make(map[string]*store)
	s.names = make(map[string]string)
	s.requests = nil
	s.overrides = make(map[string]rawResponse)
	if s.opts.APIKey != "" {
		s.tenants[s.opts.APIKey] = newStore()
	}
}

// BaseURL is the URL a kvrest client should be configured with, including
// BasePath. Empty until started.
func (s *Server) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ts == nil {
		return ""
	}
	return s.ts.URL + s.opts.BasePath
}

// RootURL is the URL an admin client should be configured with. Empty
// until started.
func (s *Server) RootURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ts == nil {
		return ""
	}
	return s.ts.URL
}

// Respond makes every later request matching method and path (relative to
// BasePath) receive status and body verbatim, bypassing auth and storage.
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = rawResponse{status: status, body: body}
}

// Requests returns a copy of the recorded requests in arrival order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or false if none arrived.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Provision creates a tenant with the given API key if it does not exist.
func (s *Server) Provision(apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[apiKey]; !ok {
		s.tenants[apiKey] = newStore()
	}
}

// --- component.Component ---

func (s *Server) Name() string { return "kvtest" }

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts != nil {
		return fmt.Errorf("kvtest: already started")
	}
	s.ts = httptest.NewServer(s.engine())
	return nil
}

func (s *Server) Stop(_ context.Context) error {
	s.mu.Lock()
	ts := s.ts
	s.ts = nil
	s.mu.Unlock()
	if ts != nil {
		ts.Close()
	}
	return nil
}

func (s *Server) Health(_ context.Context) component.Health {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ts == nil {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

// --- testutil.TestComponent ---

// Reset drops all data, recordings and injected responses.
func (s *Server) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetState()
	return nil
}

type snapshot struct {
	tenants map[string]*store
	names   map[string]string
}

// Snapshot captures tenant data. Recordings and overrides are not included.
func (s *Server) Snapshot(_ context.Context) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		tenants: make(map[string]*store, len(s.tenants)),
		names:   make(map[string]string, len(s.names)),
	}
	for k, st := range s.tenants {
		snap.tenants[k] = st.clone()
	}
	for k, v := range s.names {
		snap.names[k] = v
	}
	return snap, nil
}

// Restore replaces tenant data with a snapshot taken from this server.
func (s *Server) Restore(_ context.Context, v any) error {
	snap, ok := v.(snapshot)
	if !ok {
		return fmt.Errorf("kvtest: unexpected snapshot type %T", v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = make(map[string]*store, len(snap.tenants))
	for k, st := range snap.tenants {
		s.tenants[k] = st.clone()
	}
	s.names = make(map[string]string, len(snap.names))
	for k, v := range snap.names {
		s.names[k] = v
	}
	return nil
}

// --- routing ---

func (s *Server) engine() *gin.Engine {
	r := gin.New()
	// Engine-level so unrouted paths are recorded and injectable too.
	r.Use(gin.Recovery(), s.record, s.injected, requireAnyAPIKey)

	admin := r.Group("/admin", s.requireMasterKey)
	admin.PUT("/create_kv", s.createKV)
	admin.PUT("/change_api_key", s.changeAPIKey)

	kv := r.Group(s.opts.BasePath, s.requireTenant)
	kv.POST("/buckets", s.listBuckets)
	kv.PUT("/:bucket", s.createBucket)
	kv.DELETE("/:bucket", s.deleteBucket)
	kv.GET("/:bucket", s.listKeys)
	kv.PUT("/:bucket/:key", s.putValue)
	kv.GET("/:bucket/:key", s.getValue)
	kv.DELETE("/:bucket/:key", s.deleteValue)

	return r
}

func (s *Server) relPath(c *gin.Context) string {
	p := c.Request.URL.Path
	if p == s.opts.BasePath || strings.HasPrefix(p, s.opts.BasePath+"/") {
		return strings.TrimPrefix(p, s.opts.BasePath)
	}
	return p
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Set(bodyKey, body)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:    s.relPath(c),
		URLPath: c.Request.URL.Path,
		Header:  c.Request.Header.Clone(),
		Body:    body,
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) injected(c *gin.Context) {
	s.mu.RLock()
	resp, ok := s.overrides[c.Request.Method+" "+s.relPath(c)]
	s.mu.RUnlock()
	if !ok {
		c.Next()
		return
	}
	c.Data(resp.status, "application/json", []byte(resp.body))
	c.Abort()
}

// requireAnyAPIKey guards every route, admin included.
func requireAnyAPIKey(c *gin.Context) {
	if c.GetHeader(apiKeyHeader) == "" {
		c.String(http.StatusUnauthorized, "Missing API key")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) requireTenant(c *gin.Context) {
	key := c.GetHeader(apiKeyHeader)
	s.mu.RLock()
	st, ok := s.tenants[key]
	s.mu.RUnlock()
	if !ok {
		c.String(http.StatusUnauthorized, "Invalid API key")
		c.Abort()
		return
	}
	c.Set(storeKey, st)
	c.Next()
}

func (s *Server) requireMasterKey(c *gin.Context) {
	key := c.GetHeader(masterKeyHeader)
	if key == "" || key != s.opts.MasterKey {
		c.String(http.StatusUnauthorized, "Unauthorized")
		c.Abort()
		return
	}
	c.Next()
}

const (
	bodyKey  = "kvtest.body"
	storeKey = "kvtest.store"
)

func requestBody(c *gin.Context) []byte {
	if v, ok := c.Get(bodyKey); ok {
		return v.([]byte)
	}
	return nil
}

func tenant(c *gin.Context) *store {
	return c.MustGet(storeKey).(*store)
}
