package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/pipekit/pipe"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("svc", "1.2.3", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if kv.Key == AttrServiceName && kv.Value.AsString() == "svc" {
			found = true
		}
	}
	if !found {
		t.Error("expected service.name attribute on resource")
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %s, want %s", tc.rate, got, tc.want)
		}
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.StatusHook("p")(pipe.StatusCreated, pipe.StatusWorking)
	metrics.RecordStep(ctx, "s", 10*time.Millisecond, nil)
	metrics.RecordPiece(ctx, "t")
}

func newManualMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	return metrics, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected int64 sum, got %T", data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_StatusHookCountsTransitions(t *testing.T) {
	metrics, reader := newManualMetrics(t)

	src := pipe.NewLambdaFirstPipe(pipe.FromSlice([]string{"a", "b"}),
		pipe.WithName("src"),
		pipe.WithStatusHook(metrics.StatusHook("src")),
	)
	if _, err := pipe.Collect(context.Background(), src.Produces()); err != nil {
		t.Fatal(err)
	}

	data := collect(t, reader)
	if got := sumOf(t, data["pipe.transitions"]); got != 2 {
		t.Errorf("expected 2 transitions, got %d", got)
	}
	if got := sumOf(t, data["pipe.active"]); got != 0 {
		t.Errorf("expected no active pipes after finish, got %d", got)
	}
}

func TestMetrics_RecordStep(t *testing.T) {
	metrics, reader := newManualMetrics(t)
	ctx := context.Background()

	metrics.RecordStep(ctx, "load", 20*time.Millisecond, nil)
	metrics.RecordStep(ctx, "load", 30*time.Millisecond, errors.New("boom"))

	data := collect(t, reader)
	runs, ok := data["step.runs"].(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected step.runs sum, got %T", data["step.runs"])
	}
	byStatus := map[string]int64{}
	for _, dp := range runs.DataPoints {
		status, _ := dp.Attributes.Value(attribute.Key(AttrStatus))
		byStatus[status.AsString()] += dp.Value
	}
	if byStatus["ok"] != 1 || byStatus["error"] != 1 {
		t.Errorf("expected one ok and one error run, got %v", byStatus)
	}

	hist, ok := data["step.duration"].(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected step.duration histogram, got %T", data["step.duration"])
	}
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 2 {
		t.Errorf("expected 2 recorded durations, got %+v", hist.DataPoints)
	}
}

func TestMetrics_RecordPiece(t *testing.T) {
	metrics, reader := newManualMetrics(t)
	for i := 0; i < 3; i++ {
		metrics.RecordPiece(context.Background(), "job")
	}
	if got := sumOf(t, collect(t, reader)["tracker.pieces"]); got != 3 {
		t.Errorf("expected 3 pieces, got %d", got)
	}
}

func TestNewServiceHealth(t *testing.T) {
	sh := NewServiceHealth("my-service", "1.0.0")

	if sh.Service != "my-service" {
		t.Errorf("expected Service 'my-service', got %s", sh.Service)
	}
	if sh.Status != HealthStatusUp {
		t.Errorf("expected Status 'up', got %s", sh.Status)
	}
}

func TestServiceHealth_AddComponent(t *testing.T) {
	sh := NewServiceHealth("my-service", "1.0.0")

	sh.AddComponent(Health{Name: "src", Status: HealthStatusUp})
	if sh.Status != HealthStatusUp {
		t.Errorf("expected status 'up' after healthy component, got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "map", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDegraded {
		t.Errorf("expected status 'degraded', got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "sink", Status: HealthStatusDown})
	sh.AddComponent(Health{Name: "other", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDown {
		t.Errorf("expected 'down' not overridden by 'degraded', got %s", sh.Status)
	}
}

func TestPipeHealth(t *testing.T) {
	ok := pipe.NewLambdaFirstPipe(pipe.FromSlice([]int{1}), pipe.WithName("ok"))
	bad := pipe.NewLambdaMidPipe(func(in *pipe.Sequence[int]) *pipe.Sequence[int] { return in },
		pipe.WithName("bad"))
	_, _ = pipe.Collect(context.Background(), bad.Produces())

	if h := PipeHealth(ok); h.Status != HealthStatusUp || h.Details["status"] != "created" {
		t.Errorf("unexpected health for fresh pipe: %+v", h)
	}
	if h := PipeHealth(bad); h.Status != HealthStatusDegraded || h.Name != "bad" {
		t.Errorf("unexpected health for errored pipe: %+v", h)
	}
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test-operation")
	defer span.End()

	if !SpanFromContext(ctx).SpanContext().Equal(span.SpanContext()) {
		t.Error("expected span to be stored in context")
	}
}

func TestEndSpan_RecordsError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	tracer := tp.Tracer("test")

	_, span := tracer.Start(context.Background(), "ok")
	EndSpan(span, nil)
	_, span = tracer.Start(context.Background(), "failed")
	EndSpan(span, errors.New("boom"))

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Unset {
		t.Errorf("expected unset status, got %v", spans[0].Status.Code)
	}
	if spans[1].Status.Code != codes.Error || spans[1].Status.Description != "boom" {
		t.Errorf("expected error status, got %+v", spans[1].Status)
	}
	if len(spans[1].Events) != 1 {
		t.Errorf("expected recorded error event, got %d events", len(spans[1].Events))
	}
}

func TestInitTracer(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")
	tp, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if otel.GetTracerProvider() != tp {
		t.Error("expected tracer provider to be installed globally")
	}
	_ = tp.Shutdown(context.Background())
}

func TestInitMeter(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")
	cfg.Interval = 0
	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = mp.Shutdown(context.Background())
}
