package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clickstream-labs/intent-engine/internal/domain/entities"
)

var extractionClock = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func newTestExtractor() *FeatureExtractionService {
	svc := NewFeatureExtractionService()
	svc.now = func() time.Time { return extractionClock }
	return svc
}

func sessionStartedBefore(d time.Duration) *entities.Session {
	return &entities.Session{StartTime: extractionClock.Add(-d).Format(time.RFC3339)}
}

func TestExtract_SessionDuration(t *testing.T) {
	svc := newTestExtractor()

	f := svc.Extract(sessionStartedBefore(45*time.Second), nil)
	assert.Equal(t, 45.0, f.SessionDuration)
	assert.InDelta(t, 0.15, f.TimeScore, 1e-9)
}

func TestExtract_TimeScoreCapsAtOne(t *testing.T) {
	svc := newTestExtractor()

	f := svc.Extract(sessionStartedBefore(10*time.Minute), nil)
	assert.Equal(t, 600.0, f.SessionDuration)
	assert.Equal(t, 1.0, f.TimeScore)
}

func TestExtract_NoStartTime(t *testing.T) {
	svc := newTestExtractor()

	f := svc.Extract(&entities.Session{}, nil)
	assert.Equal(t, 0.0, f.SessionDuration)
	assert.Equal(t, 0.0, f.TimeScore)
}

func TestExtract_FutureStartClampsToZero(t *testing.T) {
	svc := newTestExtractor()

	f := svc.Extract(sessionStartedBefore(-time.Minute), nil)
	assert.Equal(t, 0.0, f.SessionDuration)
}

func TestExtract_EventCounts(t *testing.T) {
	svc := newTestExtractor()

	events := []entities.Event{
		{Type: entities.EventTypeClick},
		{Type: entities.EventTypeClick},
		{Type: entities.EventTypeScroll},
		{Type: entities.EventTypePageView},
		{Type: entities.EventTypeHover},
		{Type: entities.EventTypeFormSubmit},
	}
	f := svc.Extract(&entities.Session{}, events)

	assert.Equal(t, 6, f.TotalEvents)
	assert.Equal(t, 2, f.ClickCount)
	assert.Equal(t, 1, f.ScrollCount)
	assert.Equal(t, 1, f.PageViews)
}

func TestExtract_AvgScrollDepth(t *testing.T) {
	svc := newTestExtractor()

	events := []entities.Event{
		{Type: entities.EventTypeScroll, Data: json.RawMessage(`{"scroll_depth": 20}`)},
		{Type: entities.EventTypeScroll, Data: json.RawMessage(`"{\"scroll_depth\": 40}"`)},
		// Unparsable and depthless payloads contribute nothing, they do
		// not drag the average toward zero.
		{Type: entities.EventTypeScroll, Data: json.RawMessage(`{{broken`)},
		{Type: entities.EventTypeScroll},
	}
	f := svc.Extract(&entities.Session{}, events)

	assert.Equal(t, 4, f.ScrollCount)
	assert.Equal(t, 30.0, f.AvgScrollDepth)
}

func TestExtract_NoScrollEvents(t *testing.T) {
	svc := newTestExtractor()

	f := svc.Extract(&entities.Session{}, []entities.Event{{Type: entities.EventTypeClick}})
	assert.Equal(t, 0.0, f.AvgScrollDepth)
}

func TestExtract_DeviceWeights(t *testing.T) {
	svc := newTestExtractor()

	cases := map[string]float64{
		`{"device_type": "mobile"}`:   1.0,
		`{"device_type": "MOBILE"}`:   1.0,
		`{"device_type": "Tablet"}`:   0.5,
		`{"device_type": "desktop"}`:  0.0,
		`{"device_type": "smart-tv"}`: 0.0,
	}
	for raw, want := range cases {
		f := svc.Extract(&entities.Session{DeviceInfo: json.RawMessage(raw)}, nil)
		assert.Equal(t, want, f.DeviceType, "device_info=%s", raw)
	}

	// Malformed descriptor degrades to desktop.
	f := svc.Extract(&entities.Session{DeviceInfo: json.RawMessage(`not json`)}, nil)
	assert.Equal(t, 0.0, f.DeviceType)
}

func TestExtract_ReferrerWeights(t *testing.T) {
	svc := newTestExtractor()

	cases := map[string]float64{
		"https://www.google.com/search?q=prices": 1.0,
		"https://duckduckgo.com/search":          1.0,
		"https://www.facebook.com/feed":          0.5,
		"https://Twitter.com/some/post":          0.5,
		"https://example.com/newsletter":         0.0,
		"":                                       0.0,
		// Search outranks social when both substrings match.
		"https://social-search.example.com": 1.0,
	}
	for ref, want := range cases {
		f := svc.Extract(&entities.Session{Referrer: ref}, nil)
		assert.Equal(t, want, f.ReferrerType, "referrer=%q", ref)
	}
}

func TestExtract_NilSession(t *testing.T) {
	svc := newTestExtractor()

	f := svc.Extract(nil, []entities.Event{{Type: entities.EventTypeClick}})
	assert.Equal(t, 0.0, f.SessionDuration)
	assert.Equal(t, 0.0, f.DeviceType)
	assert.Equal(t, 1, f.ClickCount)
}
