package entities

import (
	"encoding/json"
	"time"
)

// Session is the behavioral telemetry envelope supplied by the tracking
// layer for one visitor session. Every optional field tolerates malformed
// values: feature extraction degrades to neutral defaults instead of failing.
type Session struct {
	ID         string          `json:"session_id,omitempty"`
	StartTime  string          `json:"start_time,omitempty"`
	DeviceInfo json.RawMessage `json:"device_info,omitempty"`
	Referrer   string          `json:"referrer,omitempty"`
}

// DeviceInfo describes the client device as reported by the tracker.
type DeviceInfo struct {
	DeviceType string `json:"device_type"`
	UserAgent  string `json:"user_agent,omitempty"`
}

// Trackers send start timestamps with an explicit offset, in UTC "Z" form,
// or as a bare local form which we treat as UTC.
var startTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParsedStartTime parses the session start timestamp. The second return is
// false when the field is absent or unparsable.
func (s *Session) ParsedStartTime() (time.Time, bool) {
	if s.StartTime == "" {
		return time.Time{}, false
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s.StartTime); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Device decodes the device descriptor. The descriptor may be a JSON object
// or a JSON string that itself contains JSON; anything else yields the zero
// DeviceInfo, which scoring treats as desktop.
func (s *Session) Device() DeviceInfo {
	var d DeviceInfo
	m := decodePayload(s.DeviceInfo)
	if v, ok := m["device_type"].(string); ok {
		d.DeviceType = v
	}
	if v, ok := m["user_agent"].(string); ok {
		d.UserAgent = v
	}
	return d
}
