package main

import (
	"context"
	"errors"

	"github.com/kbukum/kvrest/bootstrap"
	"github.com/kbukum/kvrest/kvrest"
	"github.com/kbukum/kvrest/observability"
)

var newClientMetrics = observability.NewClientMetrics

// setupTelemetry installs OTLP trace and metric providers when an endpoint
// is configured and returns the client options that report to them. The
// providers are flushed by an OnStop hook.
func setupTelemetry(ctx context.Context, app *bootstrap.App[*Settings]) ([]kvrest.Option, error) {
	s := app.Cfg
	if s.Telemetry.Endpoint == "" {
		return nil, nil
	}

	tp, err := observability.InitTracer(ctx, s.tracerConfig())
	if err != nil {
		return nil, err
	}
	mp, err := observability.InitMeter(ctx, s.meterConfig())
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	shutdown := func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}

	metrics, err := newClientMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	app.OnStop(shutdown)
	return []kvrest.Option{
		kvrest.WithTracer(observability.Tracer(observability.InstrumentationName)),
		kvrest.WithMetrics(metrics),
	}, nil
}
