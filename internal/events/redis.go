package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/config"
)

// NewRedisClient creates a client from the redis section of the config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisBus publishes events on a Redis pub/sub channel so that every server
// attached to the same database hears about every change.
type RedisBus struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
	buffer  int

	mu      sync.Mutex
	closed  bool
	cancels map[int]func()
	nextID  int
}

// NewRedisBus wraps client. The bus owns the client and closes it on Close.
func NewRedisBus(client *redis.Client, channel string, logger *zap.Logger) *RedisBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBus{
		client:  client,
		channel: channel,
		logger:  logger.Named("events.redis"),
		buffer:  DefaultBuffer,
		cancels: make(map[int]func()),
	}
}

// Ping checks the connection.
func (b *RedisBus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Publish encodes e as JSON and publishes it.
func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	data, err := json.Marshal(stamp(e))
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", b.channel, err)
	}
	return nil
}

// Subscribe listens on the channel. If the subscription cannot be
// established the returned channel is already closed.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	out := make(chan Event, b.buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(out)
		return out, func() {}
	}
	id := b.nextID
	b.nextID++
	b.mu.Unlock()

	ps := b.client.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		b.logger.Error("subscribing failed", zap.String("channel", b.channel), zap.Error(err))
		ps.Close()
		close(out)
		return out, func() {}
	}

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			b.mu.Lock()
			delete(b.cancels, id)
			b.mu.Unlock()
		})
	}
	b.mu.Lock()
	b.cancels[id] = cancel
	b.mu.Unlock()

	msgs := ps.Channel()
	go func() {
		defer close(out)
		defer ps.Close()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(m.Payload), &e); err != nil {
					b.logger.Warn("discarding malformed event", zap.String("payload", m.Payload), zap.Error(err))
					continue
				}
				select {
				case out <- e:
				default:
					b.logger.Warn("subscriber buffer full, dropping event", zap.String("type", string(e.Type)))
				}
			}
		}
	}()
	return out, cancel
}

// Close ends all subscriptions and closes the client.
func (b *RedisBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	cancels := make([]func(), 0, len(b.cancels))
	for _, c := range b.cancels {
		cancels = append(cancels, c)
	}
	b.mu.Unlock()

	for _, c := range cancels {
		c()
	}
	return b.client.Close()
}
