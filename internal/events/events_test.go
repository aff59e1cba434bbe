package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ziadkadry99/officespace/internal/config"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestLocalBusFanOut(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewLocalBus(zaptest.NewLogger(t), 4)
	defer bus.Close()
	ctx := context.Background()

	a, cancelA := bus.Subscribe(ctx)
	defer cancelA()
	b, cancelB := bus.Subscribe(ctx)
	defer cancelB()

	require.NoError(t, bus.Publish(ctx, Event{Type: OccupantAdded, OfficeID: "302", OccupantID: 9}))

	for _, ch := range []<-chan Event{a, b} {
		e := receive(t, ch)
		assert.Equal(t, OccupantAdded, e.Type)
		assert.Equal(t, "302", e.OfficeID)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestLocalBusCancelClosesChannel(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewLocalBus(nil, 0)
	ch, cancel := bus.Subscribe(context.Background())
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	require.NoError(t, bus.Publish(context.Background(), Event{Type: OccupantRemoved}))
}

func TestLocalBusContextEndsSubscription(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewLocalBus(nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := bus.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not ended by context")
	}
}

func TestLocalBusDropsWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewLocalBus(nil, 1)
	ctx := context.Background()
	ch, cancel := bus.Subscribe(ctx)
	defer cancel()

	require.NoError(t, bus.Publish(ctx, Event{Type: OccupantAdded, OfficeID: "1"}))
	require.NoError(t, bus.Publish(ctx, Event{Type: OccupantAdded, OfficeID: "2"}))

	assert.Equal(t, "1", receive(t, ch).OfficeID)
	assert.Len(t, ch, 0)
}

func TestLocalBusClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewLocalBus(nil, 0)
	ch, cancel := bus.Subscribe(context.Background())
	defer cancel()

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())
	_, ok := <-ch
	assert.False(t, ok)
	assert.ErrorIs(t, bus.Publish(context.Background(), Event{}), ErrClosed)

	late, _ := bus.Subscribe(context.Background())
	_, ok = <-late
	assert.False(t, ok)
}

func TestLocalBusPublishCanceledContext(t *testing.T) {
	bus := NewLocalBus(nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, bus.Publish(ctx, Event{}), context.Canceled)
}

func setupRedisBus(t *testing.T) (*miniredis.Miniredis, *RedisBus) {
	t.Helper()
	mr := miniredis.RunT(t)
	bus := NewRedisBus(NewRedisClient(config.RedisConfig{Addr: mr.Addr()}), "officespace:changes", zaptest.NewLogger(t))
	t.Cleanup(func() { bus.Close() })
	return mr, bus
}

func TestRedisBusRoundTrip(t *testing.T) {
	_, bus := setupRedisBus(t)
	ctx := context.Background()

	ch, cancel := bus.Subscribe(ctx)
	defer cancel()

	require.NoError(t, bus.Publish(ctx, Event{Type: OccupantUpdated, OfficeID: "405", OccupantID: 3, Source: "node-a"}))

	e := receive(t, ch)
	assert.Equal(t, OccupantUpdated, e.Type)
	assert.Equal(t, "405", e.OfficeID)
	assert.Equal(t, int64(3), e.OccupantID)
	assert.Equal(t, "node-a", e.Source)
	assert.NotEmpty(t, e.ID)
}

func TestRedisBusSkipsMalformed(t *testing.T) {
	mr, bus := setupRedisBus(t)
	ctx := context.Background()

	ch, cancel := bus.Subscribe(ctx)
	defer cancel()

	mr.Publish("officespace:changes", "not json")
	require.NoError(t, bus.Publish(ctx, Event{Type: Imported}))

	assert.Equal(t, Imported, receive(t, ch).Type)
}

func TestRedisBusCloseEndsSubscriptions(t *testing.T) {
	_, bus := setupRedisBus(t)
	ch, _ := bus.Subscribe(context.Background())

	require.NoError(t, bus.Close())
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
	assert.ErrorIs(t, bus.Publish(context.Background(), Event{}), ErrClosed)
}

func TestNewPicksImplementation(t *testing.T) {
	ctx := context.Background()

	bus, err := New(ctx, config.RedisConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalBus{}, bus)
	bus.Close()

	mr := miniredis.RunT(t)
	bus, err = New(ctx, config.RedisConfig{Addr: mr.Addr(), Channel: "c"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &RedisBus{}, bus)
	bus.Close()

	mr.Close()
	_, err = New(ctx, config.RedisConfig{Addr: mr.Addr()}, nil)
	assert.Error(t, err)
}
