package audit

import (
	"context"
	"time"
)

// Action describes what was done to an office's occupants.
type Action string

const (
	ActionOccupantAdded   Action = "occupant_added"
	ActionOccupantUpdated Action = "occupant_updated"
	ActionOccupantRemoved Action = "occupant_removed"
	ActionImport          Action = "import"
)

// DefaultActor is recorded when a change carries no actor.
const DefaultActor = "system"

// Entry is a single audit trail record. PreviousValue and NewValue hold the
// occupant record as JSON.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Actor         string    `json:"actor"`
	Action        Action    `json:"action"`
	OfficeID      string    `json:"office_id"`
	OccupantID    int64     `json:"occupant_id,omitempty"`
	Summary       string    `json:"summary"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
}

type actorKey struct{}

// WithActor records who is making changes for the duration of ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored by WithActor, or DefaultActor.
func ActorFrom(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey{}).(string); ok && a != "" {
		return a
	}
	return DefaultActor
}
