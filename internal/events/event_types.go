package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates session event identifiers.
type EventType string

const (
	EventLoggedIn       EventType = "logged_in"
	EventLoggedOut      EventType = "logged_out"
	EventSessionExpired EventType = "session_expired"
	EventAccessDenied   EventType = "access_denied"
)

// Actor identifies the user an event concerns, when known.
type Actor struct {
	UserID int    `json:"user_id,omitempty"`
	Login  string `json:"login,omitempty"`
}

// Event is emitted by the session core for chrome and notification sinks.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps a fresh event.
func NewEvent(eventType EventType, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// LoggedInPayload payload.
type LoggedInPayload struct {
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// LoggedOutPayload payload.
type LoggedOutPayload struct {
	Reason string `json:"reason"`
}

// AccessDeniedPayload payload.
type AccessDeniedPayload struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}
