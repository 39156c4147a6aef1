package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"studyflow-backend/internal/logger"
	"studyflow-backend/internal/models"
)

// Channel is the pub/sub channel every widget event is published on.
const Channel = "studyflow:events"

// Publisher pushes widget state changes to whoever is listening.
type Publisher interface {
	Publish(ctx context.Context, msg models.WSMessage)
}

// Bus is a Publisher that can also be subscribed to by the websocket hub.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context) (<-chan []byte, error)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, models.WSMessage) {}

// LocalBus fans events out to in-process subscribers. Slow subscribers lose
// events rather than block the widgets.
type LocalBus struct {
	mu     sync.RWMutex
	subs   map[chan []byte]struct{}
	buffer int
}

func NewLocalBus(buffer int) *LocalBus {
	if buffer < 1 {
		buffer = 1
	}
	return &LocalBus{
		subs:   make(map[chan []byte]struct{}),
		buffer: buffer,
	}
}

func (b *LocalBus) Publish(ctx context.Context, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Logger.Error().Err(err).Str("type", msg.Type).Msg("failed to encode event")
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			logger.Logger.Warn().Str("type", msg.Type).Msg("event subscriber is full, dropping event")
		}
	}
}

// Subscribe registers a subscriber until ctx is done.
func (b *LocalBus) Subscribe(ctx context.Context) (<-chan []byte, error) {
	ch := make(chan []byte, b.buffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

// RedisBus publishes events over Redis pub/sub so several server processes
// can feed the same websocket clients.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Logger.Error().Err(err).Str("type", msg.Type).Msg("failed to encode event")
		return
	}
	if err := b.client.Publish(ctx, Channel, string(data)).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("type", msg.Type).Msg("failed to publish event to redis")
	}
}

func (b *RedisBus) Subscribe(ctx context.Context) (<-chan []byte, error) {
	pubsub := b.client.Subscribe(ctx, Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", Channel, err)
	}

	out := make(chan []byte, 64)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
				}
			}
		}
	}()

	return out, nil
}
