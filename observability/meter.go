package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/kvrest/logger"
	"github.com/kbukum/kvrest/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string `mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `mapstructure:"service_version"`
	// Environment is the deployment environment.
	Environment string `mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `mapstructure:"endpoint"`
	// Insecure allows plain HTTP to the collector.
	Insecure bool `mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval"`
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersionInfo().Version,
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The caller must shut the provider down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricRequests       = "kvrest.client.requests"
	MetricDuration       = "kvrest.client.request.duration"
	MetricDecodeFailures = "kvrest.client.decode_failures"
)

// ClientMetrics holds the instruments recorded by the kvrest client.
type ClientMetrics struct {
	requests       metric.Int64Counter
	duration       metric.Float64Histogram
	decodeFailures metric.Int64Counter
}

// NewClientMetrics creates the client instruments on the given meter.
func NewClientMetrics(meter metric.Meter) (*ClientMetrics, error) {
	requests, err := meter.Int64Counter(MetricRequests,
		metric.WithDescription("Requests sent to the key-value service"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequests, err)
	}

	duration, err := meter.Float64Histogram(MetricDuration,
		metric.WithDescription("Round-trip duration of requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricDuration, err)
	}

	decodeFailures, err := meter.Int64Counter(MetricDecodeFailures,
		metric.WithDescription("Successful responses whose body was not valid JSON"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricDecodeFailures, err)
	}

	return &ClientMetrics{
		requests:       requests,
		duration:       duration,
		decodeFailures: decodeFailures,
	}, nil
}

// RecordRequest records one completed request. outcome is the status code,
// or "transport_error" when no response arrived.
func (m *ClientMetrics) RecordRequest(ctx context.Context, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
	))
}

// RecordDecodeFailure counts a 2xx response that could not be parsed.
func (m *ClientMetrics) RecordDecodeFailure(ctx context.Context, method string) {
	if m == nil {
		return
	}
	m.decodeFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
	))
}
