package services

import (
	"fmt"
	"strings"

	"github.com/clickstream-labs/intent-engine/internal/domain/entities"
)

// maxFactors caps how many justifications accompany a prediction.
const maxFactors = 3

// FactorExplanationService derives the human-readable factors reported
// alongside a prediction. Each category (time, interaction, engagement,
// device context) contributes at most one factor; evaluation order is
// fixed and the list is truncated to the first three that qualify.
type FactorExplanationService struct{}

// NewFactorExplanationService creates a new factor explanation service
func NewFactorExplanationService() *FactorExplanationService {
	return &FactorExplanationService{}
}

// Explain returns up to three factors for the winning intent.
func (s *FactorExplanationService) Explain(f entities.FeatureVector, primaryIntent string) []entities.Factor {
	factors := make([]entities.Factor, 0, maxFactors+1)
	intent := strings.ToLower(primaryIntent)

	if f.SessionDuration > 120 {
		factors = append(factors, entities.Factor{
			Factor:      "Time Patterns",
			Description: fmt.Sprintf("Extended session duration (%ds) indicates %s or learning intent", int(f.SessionDuration), intent),
			Weight:      entities.WeightHigh,
		})
	} else if f.SessionDuration < 30 {
		factors = append(factors, entities.Factor{
			Factor:      "Time Patterns",
			Description: fmt.Sprintf("Brief session (%ds) suggests quick information seeking", int(f.SessionDuration)),
			Weight:      entities.WeightMedium,
		})
	}

	if f.ClickCount > 5 {
		factors = append(factors, entities.Factor{
			Factor:      "Interaction Level",
			Description: fmt.Sprintf("High interaction count (%d clicks) indicates engaged %s behavior", f.ClickCount, intent),
			Weight:      entities.WeightHigh,
		})
	} else if f.ClickCount == 0 {
		factors = append(factors, entities.Factor{
			Factor:      "Interaction Level",
			Description: "No clicks detected - user may be reading or browsing",
			Weight:      entities.WeightMedium,
		})
	}

	if f.AvgScrollDepth > 70 {
		factors = append(factors, entities.Factor{
			Factor:      "Content Engagement",
			Description: fmt.Sprintf("Deep scrolling (%.0f%%) shows strong interest in content", f.AvgScrollDepth),
			Weight:      entities.WeightHigh,
		})
	} else if f.AvgScrollDepth < 20 {
		factors = append(factors, entities.Factor{
			Factor:      "Content Engagement",
			Description: "Limited scrolling suggests quick scanning or specific target",
			Weight:      entities.WeightMedium,
		})
	}

	if f.DeviceType > 0.5 {
		factors = append(factors, entities.Factor{
			Factor:      "Device Context",
			Description: "Mobile device usage often indicates on-the-go information needs",
			Weight:      entities.WeightLow,
		})
	}

	if len(factors) > maxFactors {
		factors = factors[:maxFactors]
	}
	return factors
}
