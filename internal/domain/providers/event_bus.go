package providers

import (
	"context"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

// EventBus fans session events out to the other sessions of the same user
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.SessionEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.SessionEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelSessionPrefix is the prefix of per-user session channels
const EventChannelSessionPrefix = "session:"

// GetSessionChannel returns the channel shared by every session of a user
func GetSessionChannel(userKey string) string {
	return EventChannelSessionPrefix + userKey
}
