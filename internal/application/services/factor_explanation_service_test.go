package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clickstream-labs/intent-engine/internal/domain/entities"
)

func TestExplain_ExtendedSession(t *testing.T) {
	svc := NewFactorExplanationService()

	factors := svc.Explain(entities.FeatureVector{SessionDuration: 150, ClickCount: 2, AvgScrollDepth: 50}, IntentPurchase)
	require.Len(t, factors, 1)
	assert.Equal(t, "Time Patterns", factors[0].Factor)
	assert.Equal(t, entities.WeightHigh, factors[0].Weight)
	assert.Contains(t, factors[0].Description, "150s")
	assert.Contains(t, factors[0].Description, "purchase")
}

func TestExplain_BriefSession(t *testing.T) {
	svc := NewFactorExplanationService()

	factors := svc.Explain(entities.FeatureVector{SessionDuration: 12, ClickCount: 2, AvgScrollDepth: 50}, IntentNavigation)
	require.Len(t, factors, 1)
	assert.Equal(t, "Time Patterns", factors[0].Factor)
	assert.Equal(t, entities.WeightMedium, factors[0].Weight)
	assert.Contains(t, factors[0].Description, "Brief session (12s)")
}

func TestExplain_TimeBoundaries(t *testing.T) {
	svc := NewFactorExplanationService()

	// Exactly 30 and exactly 120 fall in the unremarkable middle band.
	for _, duration := range []float64{30, 45, 120} {
		factors := svc.Explain(entities.FeatureVector{SessionDuration: duration, ClickCount: 2, AvgScrollDepth: 50}, IntentInformation)
		assert.Empty(t, factors, "duration=%v", duration)
	}
}

func TestExplain_InteractionLevels(t *testing.T) {
	svc := NewFactorExplanationService()
	base := entities.FeatureVector{SessionDuration: 60, AvgScrollDepth: 50}

	engaged := base
	engaged.ClickCount = 6
	factors := svc.Explain(engaged, IntentResearch)
	require.Len(t, factors, 1)
	assert.Equal(t, "Interaction Level", factors[0].Factor)
	assert.Equal(t, entities.WeightHigh, factors[0].Weight)
	assert.Contains(t, factors[0].Description, "6 clicks")

	factors = svc.Explain(base, IntentResearch) // zero clicks
	require.Len(t, factors, 1)
	assert.Equal(t, "Interaction Level", factors[0].Factor)
	assert.Equal(t, entities.WeightMedium, factors[0].Weight)

	// 1..5 clicks is unremarkable.
	middling := base
	middling.ClickCount = 5
	assert.Empty(t, svc.Explain(middling, IntentResearch))
}

func TestExplain_ScrollEngagement(t *testing.T) {
	svc := NewFactorExplanationService()
	base := entities.FeatureVector{SessionDuration: 60, ClickCount: 2}

	deep := base
	deep.AvgScrollDepth = 85
	factors := svc.Explain(deep, IntentLearning)
	require.Len(t, factors, 1)
	assert.Equal(t, "Content Engagement", factors[0].Factor)
	assert.Equal(t, entities.WeightHigh, factors[0].Weight)
	assert.Contains(t, factors[0].Description, "85%")

	shallow := base
	shallow.AvgScrollDepth = 19.5
	factors = svc.Explain(shallow, IntentLearning)
	require.Len(t, factors, 1)
	assert.Equal(t, entities.WeightMedium, factors[0].Weight)

	// Exactly 20 and exactly 70 are the unremarkable band edges.
	for _, depth := range []float64{20, 70} {
		middling := base
		middling.AvgScrollDepth = depth
		assert.Empty(t, svc.Explain(middling, IntentLearning), "depth=%v", depth)
	}
}

func TestExplain_MobileContext(t *testing.T) {
	svc := NewFactorExplanationService()

	factors := svc.Explain(entities.FeatureVector{SessionDuration: 60, ClickCount: 2, AvgScrollDepth: 50, DeviceType: 1.0}, IntentInformation)
	require.Len(t, factors, 1)
	assert.Equal(t, "Device Context", factors[0].Factor)
	assert.Equal(t, entities.WeightLow, factors[0].Weight)

	// Tablet (0.5) does not qualify.
	factors = svc.Explain(entities.FeatureVector{SessionDuration: 60, ClickCount: 2, AvgScrollDepth: 50, DeviceType: 0.5}, IntentInformation)
	assert.Empty(t, factors)
}

func TestExplain_TruncatesToThree(t *testing.T) {
	svc := NewFactorExplanationService()

	// Four branches qualify; the device context factor is evaluated last
	// and falls off.
	factors := svc.Explain(entities.FeatureVector{
		SessionDuration: 200,
		ClickCount:      8,
		AvgScrollDepth:  90,
		DeviceType:      1.0,
	}, IntentLearning)

	require.Len(t, factors, 3)
	assert.Equal(t, "Time Patterns", factors[0].Factor)
	assert.Equal(t, "Interaction Level", factors[1].Factor)
	assert.Equal(t, "Content Engagement", factors[2].Factor)
}
