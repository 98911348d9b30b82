package entities

import (
	"time"

	"github.com/google/uuid"
)

// SessionEventType represents the kind of local-state change shared between sessions
type SessionEventType string

const (
	SessionEventCoinBalance  SessionEventType = "coin_balance"
	SessionEventTokenCleared SessionEventType = "token_cleared"
)

// SessionEvent is published whenever a session commits shared state, so other sessions of the same user follow
type SessionEvent struct {
	ID        string           `json:"id"`
	Origin    string           `json:"origin"`
	Type      SessionEventType `json:"type"`
	Balance   int              `json:"balance,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewSessionEvent creates a new session event emitted by origin
func NewSessionEvent(origin string, eventType SessionEventType) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Origin:    origin,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}
