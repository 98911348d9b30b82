package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

var (
	// ErrUnknownSessionEvent is returned for event types no session knows how to apply
	ErrUnknownSessionEvent = errors.New("unknown session event type")
	// ErrMalformedSessionEvent is returned for events without an identity or with an impossible balance
	ErrMalformedSessionEvent = errors.New("malformed session event")
)

// normalizeSessionEvent checks event against the rules of its type.
// A token_cleared event never carries a balance.
func normalizeSessionEvent(event *entities.SessionEvent) error {
	if event == nil {
		return fmt.Errorf("%w: nil event", ErrMalformedSessionEvent)
	}
	if event.ID == "" || event.Origin == "" {
		return fmt.Errorf("%w: id and origin are required", ErrMalformedSessionEvent)
	}

	switch event.Type {
	case entities.SessionEventCoinBalance:
		if event.Balance < 0 {
			return fmt.Errorf("%w: negative balance %d", ErrMalformedSessionEvent, event.Balance)
		}
	case entities.SessionEventTokenCleared:
		event.Balance = 0
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSessionEvent, event.Type)
	}
	return nil
}

// encodeSessionEvent returns the wire form of event. The caller's event is not modified.
func encodeSessionEvent(event *entities.SessionEvent) ([]byte, error) {
	if event == nil {
		return nil, normalizeSessionEvent(nil)
	}
	ev := *event
	if err := normalizeSessionEvent(&ev); err != nil {
		return nil, err
	}
	data, err := json.Marshal(&ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session event: %w", err)
	}
	return data, nil
}

// decodeSessionEvent parses a payload published by another process
func decodeSessionEvent(payload []byte) (*entities.SessionEvent, error) {
	var ev entities.SessionEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSessionEvent, err)
	}
	if err := normalizeSessionEvent(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
