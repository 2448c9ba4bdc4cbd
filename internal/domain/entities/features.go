package entities

// FeatureVector is the fixed numeric summary of a session and its events,
// the sole input to intent scoring. It is derived fresh on every cache miss
// and never mutated afterwards.
//
// DeviceType encodes desktop=0.0, tablet=0.5, mobile=1.0.
// ReferrerType encodes direct/other=0.0, social=0.5, search=1.0.
type FeatureVector struct {
	SessionDuration float64 `json:"session_duration"`
	TimeScore       float64 `json:"time_score"`
	TotalEvents     int     `json:"total_events"`
	ClickCount      int     `json:"click_count"`
	ScrollCount     int     `json:"scroll_count"`
	PageViews       int     `json:"page_views"`
	AvgScrollDepth  float64 `json:"avg_scroll_depth"`
	DeviceType      float64 `json:"device_type"`
	ReferrerType    float64 `json:"referrer_type"`
}
