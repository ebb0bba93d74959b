// Package audit holds the append-only trail of protected accesses and the
// security events attached to them. The in-memory trail is the source of
// truth for engine metrics; sinks give the host optional persistence.
package audit

import "time"

// SecurityEvent records one detection or enforcement action. Immutable
// once created.
type SecurityEvent struct {
	EventType       string    `json:"event_type"`
	DetectedPattern string    `json:"detected_pattern,omitempty"`
	ActionTaken     string    `json:"action_taken"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewEvent stamps a security event with the current time.
func NewEvent(eventType, detectedPattern, actionTaken string) SecurityEvent {
	return SecurityEvent{
		EventType:       eventType,
		DetectedPattern: detectedPattern,
		ActionTaken:     actionTaken,
		Timestamp:       time.Now().UTC(),
	}
}
