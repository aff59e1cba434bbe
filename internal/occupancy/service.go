package occupancy

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/audit"
	"github.com/ziadkadry99/officespace/internal/events"
)

// Auditor records changes.
type Auditor interface {
	Log(ctx context.Context, e audit.Entry) error
}

// Publisher announces committed changes.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Service is the write path shared by the HTTP API, the popup and the
// CLI. Every successful write is audited and published; failures of
// either are logged but do not undo the write.
type Service struct {
	store     *Store
	auditor   Auditor
	publisher Publisher
	logger    *zap.Logger
	source    string
}

// NewService creates a Service. auditor and publisher may be nil.
func NewService(store *Store, auditor Auditor, publisher Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		auditor:   auditor,
		publisher: publisher,
		logger:    logger.Named("occupancy"),
	}
}

// SetSource tags published events with the id of this instance.
func (s *Service) SetSource(source string) { s.source = source }

// Source returns the instance tag set by SetSource.
func (s *Service) Source() string { return s.source }

// Store returns the underlying store for read-only callers.
func (s *Service) Store() *Store { return s.store }

// Offices returns every assignment grouped by office.
func (s *Service) Offices(ctx context.Context) (map[string][]Record, error) {
	return s.store.ListByOffice(ctx)
}

// Add creates an assignment.
func (s *Service) Add(ctx context.Context, officeID string, in Input) (Record, error) {
	r, err := s.store.Add(ctx, officeID, in)
	if err != nil {
		return Record{}, err
	}
	s.logger.Info("occupant added",
		zap.String("office_id", officeID),
		zap.Int64("occupant_id", r.ID),
		zap.String("actor", audit.ActorFrom(ctx)),
	)
	s.record(ctx, audit.ActionOccupantAdded, events.OccupantAdded, r.OfficeID, r.ID,
		fmt.Sprintf("added %s to %s", r.FullName, r.OfficeID), nil, &r)
	return r, nil
}

// Update changes an assignment.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Record, error) {
	prev, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	r, err := s.store.Update(ctx, id, in)
	if err != nil {
		return Record{}, err
	}
	s.logger.Info("occupant updated",
		zap.String("office_id", r.OfficeID),
		zap.Int64("occupant_id", id),
		zap.String("actor", audit.ActorFrom(ctx)),
	)
	s.record(ctx, audit.ActionOccupantUpdated, events.OccupantUpdated, r.OfficeID, r.ID,
		fmt.Sprintf("updated %s in %s", r.FullName, r.OfficeID), &prev, &r)
	return r, nil
}

// Delete removes an assignment.
func (s *Service) Delete(ctx context.Context, id int64) (Record, error) {
	r, err := s.store.Delete(ctx, id)
	if err != nil {
		return Record{}, err
	}
	s.logger.Info("occupant removed",
		zap.String("office_id", r.OfficeID),
		zap.Int64("occupant_id", id),
		zap.String("actor", audit.ActorFrom(ctx)),
	)
	s.record(ctx, audit.ActionOccupantRemoved, events.OccupantRemoved, r.OfficeID, r.ID,
		fmt.Sprintf("removed %s from %s", r.FullName, r.OfficeID), &r, nil)
	return r, nil
}

// Import inserts a batch of records, as produced by the CSV and XLSX
// readers, and records a single audit entry for it.
func (s *Service) Import(ctx context.Context, records []Record, origin string) (int, error) {
	n, err := s.store.InsertBatch(ctx, records)
	if err != nil {
		return 0, err
	}
	s.logger.Info("occupants imported", zap.Int("inserted", n), zap.String("origin", origin))
	s.record(ctx, audit.ActionImport, events.Imported, "", 0,
		fmt.Sprintf("imported %d occupants from %s", n, origin), nil, nil)
	return n, nil
}

func (s *Service) record(ctx context.Context, action audit.Action, typ events.Type, officeID string, occupantID int64, summary string, prev, next *Record) {
	if s.auditor != nil {
		entry := audit.Entry{
			Actor:         audit.ActorFrom(ctx),
			Action:        action,
			OfficeID:      officeID,
			OccupantID:    occupantID,
			Summary:       summary,
			PreviousValue: marshal(prev),
			NewValue:      marshal(next),
		}
		if err := s.auditor.Log(ctx, entry); err != nil {
			s.logger.Error("writing audit entry", zap.String("action", string(action)), zap.Error(err))
		}
	}
	if s.publisher != nil {
		e := events.Event{Type: typ, OfficeID: officeID, OccupantID: occupantID, Source: s.source}
		if err := s.publisher.Publish(ctx, e); err != nil {
			s.logger.Warn("publishing change event", zap.String("type", string(typ)), zap.Error(err))
		}
	}
}

func marshal(r *Record) string {
	if r == nil {
		return ""
	}
	data, err := json.Marshal(OccupantJSON{Record: *r, OfficeID: r.OfficeID})
	if err != nil {
		return ""
	}
	return string(data)
}
