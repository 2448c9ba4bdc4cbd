package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/clickstream-labs/intent-engine"

// Metrics holds the prediction engine's metric instruments
type Metrics struct {
	PredictionCount    metric.Int64Counter
	PredictionFailures metric.Int64Counter
	PredictionDuration metric.Float64Histogram
	SlowCallCount      metric.Int64Counter
	CacheHitCount      metric.Int64Counter
	CacheMissCount     metric.Int64Counter
}

// Setup initializes OpenTelemetry
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		return tracerProvider.Shutdown(ctx)
	}

	return shutdown, nil
}

// InitMetrics initializes the engine metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	predictionCount, err := meter.Int64Counter(
		"prediction.count",
		metric.WithDescription("Number of intent predictions"),
	)
	if err != nil {
		return nil, err
	}

	predictionFailures, err := meter.Int64Counter(
		"prediction.failure.count",
		metric.WithDescription("Number of failed intent predictions"),
	)
	if err != nil {
		return nil, err
	}

	predictionDuration, err := meter.Float64Histogram(
		"prediction.duration",
		metric.WithDescription("Intent prediction duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	slowCallCount, err := meter.Int64Counter(
		"prediction.slow.count",
		metric.WithDescription("Number of predictions slower than the configured threshold"),
	)
	if err != nil {
		return nil, err
	}

	cacheHitCount, err := meter.Int64Counter(
		"cache.hit.count",
		metric.WithDescription("Number of prediction cache hits"),
	)
	if err != nil {
		return nil, err
	}

	cacheMissCount, err := meter.Int64Counter(
		"cache.miss.count",
		metric.WithDescription("Number of prediction cache misses"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		PredictionCount:    predictionCount,
		PredictionFailures: predictionFailures,
		PredictionDuration: predictionDuration,
		SlowCallCount:      slowCallCount,
		CacheHitCount:      cacheHitCount,
		CacheMissCount:     cacheMissCount,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordPredictionMetric records one guarded call. Safe to call with nil
// metrics when OTel is disabled.
func RecordPredictionMetric(ctx context.Context, metrics *Metrics, operation string, succeeded bool, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
	}
	metrics.PredictionCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.PredictionDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if !succeeded {
		metrics.PredictionFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordSlowCall records a call that exceeded the slow-call threshold
func RecordSlowCall(ctx context.Context, metrics *Metrics, operation string) {
	if metrics == nil {
		return
	}
	metrics.SlowCallCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordCacheHit records a prediction cache hit
func RecordCacheHit(ctx context.Context, metrics *Metrics, keyspace string) {
	if metrics == nil {
		return
	}
	metrics.CacheHitCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.keyspace", keyspace),
	))
}

// RecordCacheMiss records a prediction cache miss
func RecordCacheMiss(ctx context.Context, metrics *Metrics, keyspace string) {
	if metrics == nil {
		return
	}
	metrics.CacheMissCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.keyspace", keyspace),
	))
}
