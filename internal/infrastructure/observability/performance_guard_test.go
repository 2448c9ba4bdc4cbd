package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs redirects the global logger into a buffer for one test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := log.Logger
	buf := &bytes.Buffer{}
	log.Logger = zerolog.New(buf)
	t.Cleanup(func() { log.Logger = old })
	return buf
}

// withFakeClock makes the guard observe a fixed elapsed duration.
func withFakeClock(g *PerformanceGuard, elapsed time.Duration) {
	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	calls := 0
	g.now = func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(elapsed)
	}
}

func TestObserve_FastCallIsQuiet(t *testing.T) {
	buf := captureLogs(t)
	g := NewPerformanceGuard(time.Second, nil)
	withFakeClock(g, 10*time.Millisecond)

	err := g.Observe(context.Background(), "predict_intent", func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestObserve_SlowCallLogsWarning(t *testing.T) {
	buf := captureLogs(t)
	g := NewPerformanceGuard(time.Second, nil)
	withFakeClock(g, 2*time.Second)

	err := g.Observe(context.Background(), "predict_intent", func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Slow operation")
	assert.Contains(t, buf.String(), "predict_intent")
}

func TestObserve_ErrorIsLoggedAndReturned(t *testing.T) {
	buf := captureLogs(t)
	g := NewPerformanceGuard(time.Second, nil)
	withFakeClock(g, 5*time.Millisecond)

	boom := errors.New("boom")
	err := g.Observe(context.Background(), "predict_intent", func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "Guarded operation failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestNewPerformanceGuard_DefaultThreshold(t *testing.T) {
	g := NewPerformanceGuard(0, nil)
	assert.Equal(t, DefaultSlowCallThreshold, g.threshold)
}

func TestObserve_NilMetricsSafe(t *testing.T) {
	captureLogs(t)
	g := NewPerformanceGuard(time.Nanosecond, nil)

	err := g.Observe(context.Background(), "predict_intent", func(ctx context.Context) error {
		time.Sleep(time.Millisecond)
		return nil
	})
	assert.NoError(t, err)
	assert.Nil(t, g.Metrics())
}
