package entities

import (
	"encoding/json"
)

// Event kinds accepted by the tracking layer. The set is closed; unknown
// kinds are counted in TotalEvents but contribute to no other feature.
const (
	EventTypeClick      = "click"
	EventTypeScroll     = "scroll"
	EventTypePageView   = "page_view"
	EventTypeFormSubmit = "form_submit"
	EventTypeHover      = "hover"
	EventTypeFocus      = "focus"
	EventTypeBlur       = "blur"
)

// Event is a single timestamped interaction within a session. Ordering is
// not significant to prediction; the engine only aggregates.
type Event struct {
	Type      string          `json:"event_type"`
	Data      json.RawMessage `json:"event_data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// ScrollDepth extracts the numeric scroll_depth from the event payload.
// The second return is false when the payload is missing, unparsable, or
// carries a non-numeric depth; such events contribute nothing to the
// average rather than dragging it toward zero.
func (e *Event) ScrollDepth() (float64, bool) {
	v, ok := decodePayload(e.Data)["scroll_depth"]
	if !ok {
		return 0, false
	}
	depth, ok := v.(float64)
	return depth, ok
}

// decodePayload decodes a payload that is either a JSON object or a JSON
// string wrapping a JSON object (trackers double-encode under some
// serializers). Unparsable payloads decode to nil.
func decodePayload(raw json.RawMessage) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err == nil {
		return m
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return m
		}
	}
	return nil
}
