package main

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/pipekit/config"
	"github.com/kbukum/pipekit/observability"
)

// telemetry owns the OTLP providers for the lifetime of the app.
type telemetry struct {
	cfg     TelemetryConfig
	service *config.ServiceConfig

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

func newTelemetry(cfg TelemetryConfig, service *config.ServiceConfig) *telemetry {
	return &telemetry{cfg: cfg, service: service}
}

func (t *telemetry) start(ctx context.Context) error {
	if t.cfg.Tracing {
		tc := observability.DefaultTracerConfig(t.service.Name)
		tc.ServiceVersion = t.serviceVersion()
		tc.Environment = t.service.Environment
		tc.Endpoint = t.cfg.Endpoint
		tc.Insecure = t.cfg.Insecure
		tc.SampleRate = t.cfg.SampleRate

		tp, err := observability.InitTracer(ctx, tc)
		if err != nil {
			return err
		}
		t.tracerProvider = tp
	}

	if t.cfg.Metrics {
		mc := observability.DefaultMeterConfig(t.service.Name)
		mc.ServiceVersion = t.serviceVersion()
		mc.Environment = t.service.Environment
		mc.Endpoint = t.cfg.Endpoint
		mc.Insecure = t.cfg.Insecure

		mp, err := observability.InitMeter(ctx, mc)
		if err != nil {
			return err
		}
		t.meterProvider = mp
	}
	return nil
}

// stop flushes and shuts down whichever providers were started.
func (t *telemetry) stop(ctx context.Context) error {
	var errs []error
	if t.tracerProvider != nil {
		errs = append(errs, t.tracerProvider.Shutdown(ctx))
	}
	if t.meterProvider != nil {
		errs = append(errs, t.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (t *telemetry) serviceVersion() string {
	if t.service.Version != "" {
		return t.service.Version
	}
	return "dev"
}
