// Package observability wires OpenTelemetry tracing and metrics for the
// kvrest client and CLI.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("kvrest"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("kvrest"))
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewClientMetrics(observability.Meter(observability.InstrumentationName))
//	m.RecordRequest(ctx, "GET", "200", time.Since(start))
//
// Both Init functions install the provider globally, so a kvrest.Client built
// afterwards with observability.Tracer picks it up.
package observability
