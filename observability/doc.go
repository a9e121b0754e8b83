// Package observability provides OpenTelemetry tracing and metrics for
// pipes and steps.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("pipekit"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("pipekit"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("pipekit"))
//	lower := pipe.NewMapPipe(mappers, pipe.WithName("lower"),
//	    pipe.WithStatusHook(metrics.StatusHook("lower")))
//
// Health:
//
//	health := observability.NewServiceHealth("pipekit", version.GetVersionInfo().Version)
//	health.AddComponent(observability.PipeHealth(lower))
package observability
