package observability

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultSlowCallThreshold flags guarded operations slower than one second.
const DefaultSlowCallThreshold = time.Second

// PerformanceGuard times a guarded operation inside a span, records its
// duration, warns on slow calls and logs failures with elapsed time. It is
// purely observational: the operation's error is handed back unchanged.
type PerformanceGuard struct {
	threshold time.Duration
	metrics   *Metrics
	now       func() time.Time
}

// NewPerformanceGuard creates a guard with the given slow-call threshold.
// A non-positive threshold falls back to DefaultSlowCallThreshold; metrics
// may be nil when OTel is disabled.
func NewPerformanceGuard(threshold time.Duration, metrics *Metrics) *PerformanceGuard {
	if threshold <= 0 {
		threshold = DefaultSlowCallThreshold
	}
	return &PerformanceGuard{
		threshold: threshold,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Metrics exposes the guard's instrument set so callers can record related
// signals, such as cache hits. May be nil.
func (g *PerformanceGuard) Metrics() *Metrics {
	return g.metrics
}

// Observe runs fn, recording wall-clock duration and outcome.
func (g *PerformanceGuard) Observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := StartSpan(ctx, operation)
	defer span.End()

	start := g.now()
	err := fn(ctx)
	elapsed := g.now().Sub(start)

	RecordPredictionMetric(ctx, g.metrics, operation, err == nil, elapsed)

	if err != nil {
		RecordError(span, err)
		log.Error().
			Err(err).
			Str("operation", operation).
			Dur("elapsed", elapsed).
			Msg("Guarded operation failed")
		return err
	}

	if elapsed > g.threshold {
		SetSpanAttributes(span, attribute.Bool("operation.slow", true))
		RecordSlowCall(ctx, g.metrics, operation)
		log.Warn().
			Str("operation", operation).
			Dur("elapsed", elapsed).
			Dur("threshold", g.threshold).
			Msg("Slow operation")
	}

	return nil
}
