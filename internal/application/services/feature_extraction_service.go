package services

import (
	"math"
	"strings"
	"time"

	"github.com/clickstream-labs/intent-engine/internal/domain/entities"
)

// timeScoreWindow normalizes session duration against a five minute ceiling.
const timeScoreWindow = 300.0

// FeatureExtractionService turns a session and its events into the fixed
// feature vector consumed by intent scoring. Extraction never fails:
// malformed or missing optional fields fall back to neutral defaults
// (zero counts, desktop device, direct referrer).
type FeatureExtractionService struct {
	now func() time.Time
}

// NewFeatureExtractionService creates a new feature extraction service
func NewFeatureExtractionService() *FeatureExtractionService {
	return &FeatureExtractionService{now: time.Now}
}

// Extract derives the feature vector for a session and its events.
func (s *FeatureExtractionService) Extract(session *entities.Session, events []entities.Event) entities.FeatureVector {
	var f entities.FeatureVector

	if session != nil {
		if start, ok := session.ParsedStartTime(); ok {
			if d := s.now().Sub(start).Seconds(); d > 0 {
				f.SessionDuration = d
			}
		}
		f.DeviceType = deviceWeight(session.Device().DeviceType)
		f.ReferrerType = referrerWeight(session.Referrer)
	}
	f.TimeScore = math.Min(f.SessionDuration/timeScoreWindow, 1.0)

	f.TotalEvents = len(events)
	var depthSum float64
	var depthCount int
	for i := range events {
		switch events[i].Type {
		case entities.EventTypeClick:
			f.ClickCount++
		case entities.EventTypeScroll:
			f.ScrollCount++
			if depth, ok := events[i].ScrollDepth(); ok {
				depthSum += depth
				depthCount++
			}
		case entities.EventTypePageView:
			f.PageViews++
		}
	}
	if depthCount > 0 {
		f.AvgScrollDepth = depthSum / float64(depthCount)
	}

	return f
}

// deviceWeight encodes the device class: mobile 1.0, tablet 0.5, anything
// else including absent 0.0.
func deviceWeight(deviceType string) float64 {
	switch strings.ToLower(deviceType) {
	case "mobile":
		return 1.0
	case "tablet":
		return 0.5
	default:
		return 0.0
	}
}

// referrerWeight classifies the referrer by substring, search engines
// first: search 1.0, social 0.5, direct or other 0.0.
func referrerWeight(referrer string) float64 {
	ref := strings.ToLower(referrer)
	switch {
	case strings.Contains(ref, "google") || strings.Contains(ref, "search"):
		return 1.0
	case strings.Contains(ref, "social") || strings.Contains(ref, "facebook") || strings.Contains(ref, "twitter"):
		return 0.5
	default:
		return 0.0
	}
}
