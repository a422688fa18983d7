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

	"github.com/kbukum/streamkit/logger"
)

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config TelemetryConfig) (*sdkmetric.MeterProvider, error) {
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

// StreamMetrics holds the instruments recorded by stream evaluations and plan runs.
type StreamMetrics struct {
	evaluations  metric.Int64Counter
	pulled       metric.Int64Counter
	duration     metric.Float64Histogram
	planRejected metric.Int64Counter
}

// NewStreamMetrics creates metric instruments on the given meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	evaluations, err := meter.Int64Counter("stream.evaluations",
		metric.WithDescription("Completed stream evaluations by terminal operation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.evaluations counter: %w", err)
	}

	pulled, err := meter.Int64Counter("stream.values.pulled",
		metric.WithDescription("Values pulled from source ranges"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.values.pulled counter: %w", err)
	}

	duration, err := meter.Float64Histogram("stream.evaluation.duration",
		metric.WithDescription("Duration of stream evaluations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.evaluation.duration histogram: %w", err)
	}

	planRejected, err := meter.Int64Counter("plan.rejected",
		metric.WithDescription("Plans rejected before evaluation, by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating plan.rejected counter: %w", err)
	}

	return &StreamMetrics{
		evaluations:  evaluations,
		pulled:       pulled,
		duration:     duration,
		planRejected: planRejected,
	}, nil
}

// RecordEvaluation records one finished evaluation.
func (m *StreamMetrics) RecordEvaluation(ctx context.Context, name, terminal string, pulled int, cancelled bool, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("stream", name),
		attribute.String("terminal", terminal),
		attribute.Bool("cancelled", cancelled),
	)
	m.evaluations.Add(ctx, 1, attrs)
	m.pulled.Add(ctx, int64(pulled), metric.WithAttributes(attribute.String("stream", name)))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stream", name),
		attribute.String("terminal", terminal),
	))
}

// RecordPlanRejected records a plan that failed validation or signature checks.
func (m *StreamMetrics) RecordPlanRejected(ctx context.Context, plan, code string) {
	m.planRejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("plan", plan),
		attribute.String("code", code),
	))
}
