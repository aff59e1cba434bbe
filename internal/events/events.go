// Package events carries occupancy change notifications between the write
// path and anything that needs to redraw, in one process or across several
// servers sharing a database.
package events

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/config"
)

// Type names the kind of change.
type Type string

const (
	OccupantAdded   Type = "occupant_added"
	OccupantUpdated Type = "occupant_updated"
	OccupantRemoved Type = "occupant_removed"
	Imported        Type = "imported"
)

// Event describes one committed change.
type Event struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Type       Type      `json:"type"`
	OfficeID   string    `json:"office_id,omitempty"`
	OccupantID int64     `json:"occupant_id,omitempty"`
	Source     string    `json:"source,omitempty"`
}

// Bus fans events out to subscribers.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	// Subscribe returns a channel of events and a function that ends the
	// subscription and closes the channel. The subscription also ends when
	// ctx is done.
	Subscribe(ctx context.Context) (<-chan Event, func())
	Close() error
}

// DefaultBuffer is the per-subscriber channel size.
const DefaultBuffer = 64

// New returns a RedisBus when an address is configured and a LocalBus
// otherwise.
func New(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (Bus, error) {
	if cfg.Addr == "" {
		return NewLocalBus(logger, DefaultBuffer), nil
	}
	bus := NewRedisBus(NewRedisClient(cfg), cfg.Channel, logger)
	if err := bus.Ping(ctx); err != nil {
		bus.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}
	return bus, nil
}
