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

	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/pipe"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on exit.
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

	readerOpts := []sdkmetric.PeriodicReaderOption{}
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

// Metrics holds the pipeline instruments.
type Metrics struct {
	pipeTransitions metric.Int64Counter
	pipesActive     metric.Int64UpDownCounter
	stepRuns        metric.Int64Counter
	stepDuration    metric.Float64Histogram
	trackerPieces   metric.Int64Counter
}

// NewMetrics creates the pipeline instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	pipeTransitions, err := meter.Int64Counter("pipe.transitions",
		metric.WithDescription("Pipe status transitions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipe.transitions: %w", err)
	}

	pipesActive, err := meter.Int64UpDownCounter("pipe.active",
		metric.WithDescription("Pipes currently in the working state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipe.active: %w", err)
	}

	stepRuns, err := meter.Int64Counter("step.runs",
		metric.WithDescription("Step runs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step.runs: %w", err)
	}

	stepDuration, err := meter.Float64Histogram("step.duration",
		metric.WithDescription("Step run duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step.duration: %w", err)
	}

	trackerPieces, err := meter.Int64Counter("tracker.pieces",
		metric.WithDescription("Tracker pieces released"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tracker.pieces: %w", err)
	}

	return &Metrics{
		pipeTransitions: pipeTransitions,
		pipesActive:     pipesActive,
		stepRuns:        stepRuns,
		stepDuration:    stepDuration,
		trackerPieces:   trackerPieces,
	}, nil
}

// StatusHook returns a pipe.StatusHook that counts the named pipe's
// transitions and keeps pipe.active in step with its working state.
func (m *Metrics) StatusHook(pipeName string) pipe.StatusHook {
	return func(from, to pipe.Status) {
		ctx := context.Background()
		m.pipeTransitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String(AttrPipeName, pipeName),
			attribute.String(AttrFrom, from.String()),
			attribute.String(AttrTo, to.String()),
		))
		switch {
		case to == pipe.StatusWorking:
			m.pipesActive.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrPipeName, pipeName)))
		case from == pipe.StatusWorking:
			m.pipesActive.Add(ctx, -1, metric.WithAttributes(attribute.String(AttrPipeName, pipeName)))
		}
	}
}

// RecordStep records one finished step run.
func (m *Metrics) RecordStep(ctx context.Context, step string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.stepRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStepName, step),
		attribute.String(AttrStatus, status),
	))
	m.stepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrStepName, step),
	))
}

// RecordPiece counts one released tracker piece.
func (m *Metrics) RecordPiece(ctx context.Context, tracker string) {
	m.trackerPieces.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrTracker, tracker)))
}
