package kvrest

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/kvrest/errors"
	"github.com/kbukum/kvrest/httpclient"
	"github.com/kbukum/kvrest/logger"
	"github.com/kbukum/kvrest/observability"
	"github.com/kbukum/kvrest/validation"
	"github.com/kbukum/kvrest/version"
)

// Wire constants.
const (
	HeaderAPIKey      = "API-KEY"
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

var allowedMethods = []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete}

// Client maps bucket and key operations onto single HTTP requests.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	cfg     Config
	headers map[string]string
	t       *transport
}

// Option customizes a Client or AdminClient.
type Option func(*options)

type options struct {
	log          *logger.Logger
	tracer       trace.Tracer
	metrics      *observability.ClientMetrics
	roundTripper http.RoundTripper
}

// WithLogger sets the logger. Defaults to logger.Get("kvrest").
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracer sets the tracer. Defaults to the global provider's kvrest tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithMetrics records request counts, durations and decode failures.
func WithMetrics(m *observability.ClientMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTransport replaces the HTTP round tripper, bypassing TLS settings.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.roundTripper = rt }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("kvrest")
	}
	if o.tracer == nil {
		o.tracer = observability.Tracer(observability.InstrumentationName)
	}
	return o
}

// New validates cfg and builds a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	headers := map[string]string{
		HeaderAPIKey:      cfg.APIKey,
		HeaderContentType: ContentTypeJSON,
	}

	t, err := newTransport(transportConfig{
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		tls:     cfg.TLS,
		headers: headers,
		span:    observability.SpanExecute,
	}, buildOptions(opts))
	if err != nil {
		return nil, err
	}

	return &Client{cfg: cfg, headers: headers, t: t}, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config { return c.cfg }

// Headers returns a copy of the headers sent with every request.
func (c *Client) Headers() map[string]string { return maps.Clone(c.headers) }

// Close releases idle connections.
func (c *Client) Close() { c.t.http.Close() }

// Execute sends one request and normalizes the response.
//
// method must be GET, PUT, POST or DELETE and endpoint must begin with "/";
// otherwise no request is sent. endpoint is appended to the base URL as-is.
// A nil body sends no body; anything else is JSON-encoded.
//
// A 200 or 201 yields a Result. Any other status yields a *StatusError.
// Transport failures yield an *httpclient.Error.
func (c *Client) Execute(ctx context.Context, method, endpoint string, body any) (Result, error) {
	if err := validation.New().
		OneOf("method", method, allowedMethods).
		Prefix("endpoint", endpoint, "/").
		Err(); err != nil {
		return Result{}, err
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Result{}, errors.InvalidInput("body", "not JSON-encodable").WithCause(err)
		}
		payload = b
	}

	return c.t.send(ctx, httpclient.Request{Method: method, Path: endpoint, Body: payload})
}

// transport is the request pipeline shared by Client and AdminClient.
type transport struct {
	http    *httpclient.Client
	log     *logger.Logger
	tracer  trace.Tracer
	metrics *observability.ClientMetrics
	span    string
}

type transportConfig struct {
	baseURL string
	timeout time.Duration
	tls     *httpclient.TLSConfig
	// headers are sent with every request, alongside User-Agent.
	headers map[string]string
	auth    *httpclient.AuthConfig
	span    string
}

func newTransport(cfg transportConfig, o options) (*transport, error) {
	headers := maps.Clone(cfg.headers)
	if headers == nil {
		headers = make(map[string]string, 1)
	}
	headers["User-Agent"] = version.UserAgent()

	hc, err := httpclient.New(httpclient.Config{
		BaseURL:   cfg.baseURL,
		Timeout:   cfg.timeout,
		TLS:       cfg.tls,
		Auth:      cfg.auth,
		Transport: o.roundTripper,
		Headers:   headers,
	})
	if err != nil {
		return nil, errors.InvalidInput("transport", err.Error()).WithCause(err)
	}
	return &transport{
		http:    hc,
		log:     o.log,
		tracer:  o.tracer,
		metrics: o.metrics,
		span:    cfg.span,
	}, nil
}

func (t *transport) send(ctx context.Context, req httpclient.Request) (Result, error) {
	requestID := uuid.NewString()

	ctx, span := t.tracer.Start(ctx, t.span,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrRequestID, requestID),
			attribute.String(observability.AttrHTTPMethod, req.Method),
			attribute.String(observability.AttrEndpoint, req.Path),
		),
	)
	defer span.End()

	log := t.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldRequestID, requestID,
		logger.FieldMethod, req.Method,
		logger.FieldEndpoint, req.Path,
	))

	start := time.Now()
	resp, err := t.http.Do(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		t.metrics.RecordRequest(ctx, req.Method, "transport_error", elapsed)
		observability.SetSpanError(span, err)
		log.Warn("request failed", logger.MergeWithDuration(logger.Fields(
			logger.FieldError, err.Error(),
		), elapsed))
		return Result{}, err
	}

	t.metrics.RecordRequest(ctx, req.Method, strconv.Itoa(resp.StatusCode), elapsed)
	span.SetAttributes(attribute.Int(observability.AttrHTTPStatus, resp.StatusCode))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		serr := &StatusError{
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Method:     req.Method,
			Endpoint:   req.Path,
		}
		observability.SetSpanError(span, serr)
		log.Warn("unexpected status", logger.MergeWithDuration(logger.Fields(
			logger.FieldStatusCode, resp.StatusCode,
		), elapsed))
		return Result{}, serr
	}

	res := decodeResult(resp.Body)
	span.SetAttributes(attribute.String(observability.AttrResultKind, res.Kind.String()))

	if res.Kind == KindUndecodable {
		t.metrics.RecordDecodeFailure(ctx, req.Method)
		log.Warn("response is not valid JSON", logger.Fields(
			logger.FieldStatusCode, resp.StatusCode,
			logger.FieldRawBody, string(res.Raw),
			logger.FieldError, res.Err.Error(),
		))
		return res, nil
	}

	log.Debug("request completed", logger.MergeWithDuration(logger.Fields(
		logger.FieldStatusCode, resp.StatusCode,
	), elapsed))
	return res, nil
}
