// Package observability provides OpenTelemetry tracing and metrics for
// stream evaluations.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTelemetryConfig("streamctl"))
//	defer tp.Shutdown(ctx)
//
// Every evaluated stream opens a "stream.evaluate" span under the context
// given to stream.WithContext.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultTelemetryConfig("streamctl"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewStreamMetrics(observability.Meter("streamkit"))
//	s := stream.From(r, stream.WithMetrics(metrics))
package observability
