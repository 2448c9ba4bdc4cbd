package entities

// Factor weight tags, coarsest first.
const (
	WeightHigh   = "High"
	WeightMedium = "Medium"
	WeightLow    = "Low"
)

// Prediction is the ranked intent classification for one session.
type Prediction struct {
	PredictionID     string            `json:"prediction_id"`
	PrimaryIntent    string            `json:"primary_intent"`
	Confidence       float64           `json:"confidence"`
	SecondaryIntents []SecondaryIntent `json:"secondary_intents"`
	Factors          []Factor          `json:"factors"`
	ModelVersion     string            `json:"model_version"`
}

// SecondaryIntent is a runner-up category with confidence above the
// reporting floor.
type SecondaryIntent struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Factor is a human-readable justification derived mechanically from
// feature thresholds.
type Factor struct {
	Factor      string `json:"factor"`
	Description string `json:"description"`
	Weight      string `json:"weight"`
}

// PredictionError is the user-facing failure payload. It is returned in
// place of a Prediction, never alongside one, so the transport layer can
// always serialize a response. It carries no internal stack detail.
type PredictionError struct {
	Message      string `json:"error"`
	ModelVersion string `json:"model_version"`
}
