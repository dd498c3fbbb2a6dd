package kosync

import (
	"encoding/json"
	"strconv"
)

// PushRequest is the decoded body of a progress push. Percentage stays loose
// because clients may send a JSON number or a numeric string; anything
// unparsable is dropped silently rather than failing the push, matching
// koreader-sync-server's lenient coercion.
type PushRequest struct {
	Document   string      `json:"document"`
	Percentage interface{} `json:"percentage"`
	Progress   *string     `json:"progress"`
	Device     *string     `json:"device"`
	DeviceID   *string     `json:"device_id"`
}

// State is the stored reading position returned by a pull. Absent fields are
// omitted from the wire entirely, never sent as null.
type State struct {
	Document   string   `json:"document"`
	Percentage *float64 `json:"percentage,omitempty"`
	Progress   *string  `json:"progress,omitempty"`
	Device     *string  `json:"device,omitempty"`
	DeviceID   *string  `json:"device_id,omitempty"`
	Timestamp  *int64   `json:"timestamp,omitempty"`
}

// coercePercentage converts a loosely typed percentage to a float, or nil if
// absent or unparsable
func coercePercentage(v interface{}) *float64 {
	switch p := v.(type) {
	case nil:
		return nil
	case float64:
		return &p
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
