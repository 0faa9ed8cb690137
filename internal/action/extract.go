// Package action implements the consumer side of the out-of-band action
// marker protocol. The model is prompted to append a single
// <<<ACTION:{json}>>> block when it wants to trigger client navigation;
// this package finds the marker, validates it, and strips it from the
// text shown to the user.
package action

import (
	"encoding/json"
	"log/slog"
	"regexp"
)

// Marker wire format emitted by the model.
var markerPattern = regexp.MustCompile(`<<<ACTION:(\{.*?\})>>>`)

// TypeNavigate is the only action type currently understood.
const TypeNavigate = "NAVIGATE"

// Action is a validated directive parsed from an action marker.
type Action struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// Extract scans an assistant message for an action marker. It returns the
// display text with the marker stripped and the parsed action, if any.
//
// A malformed marker is logged and ignored: the text comes back unchanged
// (marker still visible) and no action fires. A broken model response must
// never take the chat down.
func Extract(text string) (string, *Action) {
	loc := markerPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, nil
	}

	raw := text[loc[2]:loc[3]]

	var a Action
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		slog.Warn("malformed action marker ignored", "error", err)
		return text, nil
	}
	if a.Type != TypeNavigate || a.URL == "" {
		slog.Warn("action marker rejected", "type", a.Type, "url", a.URL)
		return text, nil
	}

	// Strip the marker and nothing else. Surrounding whitespace belongs to
	// the display text; presentation trimming is the caller's call.
	cleaned := text[:loc[0]] + text[loc[1]:]
	return cleaned, &a
}
