package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTelemetryConfig(t *testing.T) {
	cfg := DefaultTelemetryConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
	if cfg.Enabled {
		t.Error("expected export to be disabled by default")
	}
}

func TestTelemetryConfig_ApplyDefaults(t *testing.T) {
	cfg := TelemetryConfig{Endpoint: "collector:4318", SampleRate: 0.5}
	cfg.ApplyDefaults("streamctl")

	if cfg.ServiceName != "streamctl" {
		t.Errorf("expected ServiceName 'streamctl', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "collector:4318" {
		t.Errorf("explicit endpoint overwritten: %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 0.5 {
		t.Errorf("explicit sample rate overwritten: %f", cfg.SampleRate)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{0.25, sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %s, want %s", tc.rate, got, tc.want)
		}
	}
}

func TestNewStreamMetrics_Noop(t *testing.T) {
	metrics, err := NewStreamMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordEvaluation(ctx, "squares", "Collect", 10, false, time.Millisecond)
	metrics.RecordPlanRejected(ctx, "broken", "INVALID_SIGNATURE")
}

func TestStreamMetrics_RecordEvaluation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewStreamMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordEvaluation(ctx, "squares", "Collect", 10, false, time.Millisecond)
	metrics.RecordEvaluation(ctx, "squares", "FindFirst", 22, true, time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	if sums["stream.evaluations"] != 2 {
		t.Errorf("expected 2 evaluations, got %d", sums["stream.evaluations"])
	}
	if sums["stream.values.pulled"] != 32 {
		t.Errorf("expected 32 pulled values, got %d", sums["stream.values.pulled"])
	}
}

func TestStartSpan_RecordsError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), SpanPlanRun)
	SetSpanError(ctx, errors.New("rejected"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != SpanPlanRun {
		t.Errorf("expected span %q, got %q", SpanPlanRun, spans[0].Name)
	}
	if len(spans[0].Events) != 1 || spans[0].Events[0].Name != "exception" {
		t.Errorf("expected one exception event, got %v", spans[0].Events)
	}
}

func TestSetSpanError_NoSpan(t *testing.T) {
	// No active span: must not panic.
	SetSpanError(context.Background(), errors.New("ignored"))
}
