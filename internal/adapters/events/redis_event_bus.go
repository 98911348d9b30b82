package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/providers"
	redisclient "github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/clients/redis"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/observability"
)

// sessionChannel is the single Redis subscription shared by every local session of one user
type sessionChannel struct {
	name     string
	pubsub   *redis.PubSub
	sessions map[chan *entities.SessionEvent]struct{}
	stopped  bool
}

// deliver hands a copy of event to each session without blocking. It returns how many were full.
func (c *sessionChannel) deliver(event *entities.SessionEvent) (dropped int) {
	for session := range c.sessions {
		ev := *event
		select {
		case session <- &ev:
		default:
			dropped++
		}
	}
	return dropped
}

func (c *sessionChannel) leave(session chan *entities.SessionEvent) bool {
	if _, ok := c.sessions[session]; !ok {
		return false
	}
	delete(c.sessions, session)
	close(session)
	return true
}

// stop closes every session and the Redis subscription. Safe to call more than once.
func (c *sessionChannel) stop() error {
	for session := range c.sessions {
		c.leave(session)
	}
	if c.stopped {
		return nil
	}
	c.stopped = true
	if err := c.pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription %s: %w", c.name, err)
	}
	return nil
}

// RedisEventBus shares session events through Redis Pub/Sub, so sessions
// running in different processes see each other's coin and logout events.
// Payloads are checked per event type on both ends; anything another process
// publishes that no session could apply is dropped at the receiver.
type RedisEventBus struct {
	client   *redisclient.Client
	mu       sync.Mutex
	channels map[string]*sessionChannel
	closed   bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:   client,
		channels: make(map[string]*sessionChannel),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Publish validates event for its type and publishes it on channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.SessionEvent) error {
	data, err := encodeSessionEvent(event)
	if err != nil {
		return err
	}

	receivers, err := b.client.Client().Publish(ctx, channel, data).Result()
	if err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Int64("receivers", receivers).
		Msg("Published session event")
	return nil
}

// Subscribe joins channel until ctx is done. The Redis subscription is confirmed
// before returning, so events published afterwards are not missed.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.SessionEvent, error) {
	session := make(chan *entities.SessionEvent, 100)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(session)
		return session, nil
	}

	sc, exists := b.channels[channel]
	if !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		if _, err := pubsub.Receive(ctx); err != nil {
			b.mu.Unlock()
			_ = pubsub.Close()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		sc = &sessionChannel{
			name:     channel,
			pubsub:   pubsub,
			sessions: make(map[chan *entities.SessionEvent]struct{}),
		}
		b.channels[channel] = sc
		go b.pump(sc)
	}
	sc.sessions[session] = struct{}{}
	count := len(sc.sessions)
	b.mu.Unlock()

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Int("sessions", count).
		Msg("Subscribed to session channel")

	go func() {
		<-ctx.Done()
		b.leave(sc, session)
	}()

	return session, nil
}

// pump decodes every payload of sc once and fans the result out to its sessions
func (b *RedisEventBus) pump(sc *sessionChannel) {
	logger := observability.GetLogger()
	defer func() {
		if err := b.drop(sc); err != nil {
			logger.Warn().Err(err).Str("channel", sc.name).Msg("Failed to stop session channel")
		}
	}()

	messages := sc.pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			event, err := decodeSessionEvent([]byte(msg.Payload))
			if errors.Is(err, ErrUnknownSessionEvent) {
				// published by a newer client
				logger.Debug().Err(err).Str("channel", sc.name).Msg("Dropping session event")
				continue
			}
			if err != nil {
				logger.Warn().Err(err).Str("channel", sc.name).Msg("Dropping session event")
				continue
			}

			b.mu.Lock()
			dropped := sc.deliver(event)
			b.mu.Unlock()
			if dropped > 0 {
				logger.Warn().
					Str("channel", sc.name).
					Str("event_id", event.ID).
					Int("dropped", dropped).
					Msg("Session channel full, skipping event")
			}
		}
	}
}

// leave removes one session; the Redis subscription goes with the last one
func (b *RedisEventBus) leave(sc *sessionChannel, session chan *entities.SessionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !sc.leave(session) || len(sc.sessions) > 0 {
		return
	}
	if b.channels[sc.name] == sc {
		delete(b.channels, sc.name)
	}
	if err := sc.stop(); err != nil {
		observability.GetLogger().Warn().Err(err).Str("channel", sc.name).Msg("Failed to stop session channel")
	}
}

func (b *RedisEventBus) drop(sc *sessionChannel) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channels[sc.name] == sc {
		delete(b.channels, sc.name)
	}
	return sc.stop()
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	b.closed = true
	channels := make([]*sessionChannel, 0, len(b.channels))
	for _, sc := range b.channels {
		channels = append(channels, sc)
	}
	b.mu.Unlock()

	var errs []error
	for _, sc := range channels {
		if err := b.drop(sc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
