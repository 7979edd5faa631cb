package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/directory-client/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionEstablished  EventType = "session_established"
	EventSessionCleared      EventType = "session_cleared"
	EventCredentialDiscarded EventType = "credential_discarded"
)

// Source tells where a session transition was triggered.
type Source string

const (
	SourceLogin        Source = "login"
	SourceHydrate      Source = "hydrate"
	SourceLogout       Source = "logout"
	SourceUnauthorized Source = "unauthorized"
)

// Event represents a session transition emitted by the session manager.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Source    Source    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(eventType EventType, source Source, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SessionEstablishedPayload payload.
type SessionEstablishedPayload struct {
	Identity domain.Identity `json:"identity"`
}

// SessionClearedPayload payload.
type SessionClearedPayload struct {
	PreviousRole domain.Role `json:"previous_role"`
}

// CredentialDiscardedPayload payload. Reason is the decode error text; the
// credential itself is never carried.
type CredentialDiscardedPayload struct {
	Reason string `json:"reason"`
}
