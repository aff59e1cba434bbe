package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is returned when publishing to a closed bus.
var ErrClosed = errors.New("event bus closed")

// LocalBus delivers events to subscribers in the same process. A
// subscriber whose buffer is full misses the event rather than blocking the
// publisher.
type LocalBus struct {
	logger *zap.Logger
	buffer int

	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// NewLocalBus creates an in-process bus.
func NewLocalBus(logger *zap.Logger, buffer int) *LocalBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &LocalBus{
		logger: logger.Named("events"),
		buffer: buffer,
		subs:   make(map[int]chan Event),
	}
}

// Publish stamps e with an ID and time if missing and delivers it.
func (b *LocalBus) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e = stamp(e)

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("subscriber buffer full, dropping event",
				zap.Int("subscriber", id),
				zap.String("type", string(e.Type)),
				zap.String("office_id", e.OfficeID),
			)
		}
	}
	return nil
}

// Subscribe registers a new subscriber.
func (b *LocalBus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	cancel := func() {
		once.Do(func() {
			close(done)
			b.remove(id)
		})
	}
	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-done:
			}
		}()
	}
	return ch, cancel
}

func (b *LocalBus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Close ends every subscription.
func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return nil
}

func stamp(e Event) Event {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	return e
}
