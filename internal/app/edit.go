package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/floorplan"
)

// Persister calls run without s.mu held; every edit validates under the
// lock, persists, then validates again before committing.

// AddOccupant appends o to an office.
func (s *State) AddOccupant(ctx context.Context, officeID string, o floorplan.Occupant) error {
	s.mu.RLock()
	_, _, err := s.lookup(officeID)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if s.persister != nil {
		saved, err := s.persister.CreateOccupant(ctx, officeID, o)
		if err != nil {
			return fmt.Errorf("persisting new occupant: %w", err)
		}
		o = saved
	}

	s.mu.Lock()
	office, ref, err := s.lookup(officeID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if o.ID == 0 || find(office.Occupants, o.ID) < 0 {
		office.Occupants = append(office.Occupants, o)
		s.commit(ref, office)
	}
	s.mu.Unlock()

	s.logger.Info("occupant added", zap.String("office_id", officeID), zap.String("name", o.Name), zap.Int64("occupant_id", o.ID))
	s.changed(ref.floor, officeID)
	return nil
}

// ReplaceOccupant overwrites prev, the occupant the caller read at index i,
// keeping its stored id. ErrOccupantChanged means prev is no longer in the
// office and nothing was written.
func (s *State) ReplaceOccupant(ctx context.Context, officeID string, i int, prev, o floorplan.Occupant) error {
	s.mu.RLock()
	office, _, err := s.lookup(officeID)
	if err == nil {
		_, err = locate(office, i, prev)
	}
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	o.ID = prev.ID

	if s.persister != nil {
		var saved floorplan.Occupant
		if o.ID == 0 {
			saved, err = s.persister.CreateOccupant(ctx, officeID, o)
		} else {
			saved, err = s.persister.UpdateOccupant(ctx, o)
		}
		if err != nil {
			return fmt.Errorf("persisting occupant update: %w", err)
		}
		o = saved
	}

	s.mu.Lock()
	office, ref, err := s.lookup(officeID)
	if err == nil {
		i, err = locate(office, i, prev)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	office.Occupants[i] = o
	s.commit(ref, office)
	s.mu.Unlock()

	s.logger.Info("occupant updated", zap.String("office_id", officeID), zap.Int("index", i), zap.Int64("occupant_id", o.ID))
	s.changed(ref.floor, officeID)
	return nil
}

// RemoveOccupant deletes prev, the occupant the caller read at index i.
func (s *State) RemoveOccupant(ctx context.Context, officeID string, i int, prev floorplan.Occupant) error {
	s.mu.RLock()
	office, _, err := s.lookup(officeID)
	if err == nil {
		_, err = locate(office, i, prev)
	}
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if s.persister != nil && prev.ID != 0 {
		if err := s.persister.DeleteOccupant(ctx, prev.ID); err != nil {
			return fmt.Errorf("persisting occupant removal: %w", err)
		}
	}

	s.mu.Lock()
	office, ref, err := s.lookup(officeID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	// A reload may already have dropped the row.
	if i, err = locate(office, i, prev); err == nil {
		office.Occupants = append(office.Occupants[:i], office.Occupants[i+1:]...)
		s.commit(ref, office)
	}
	s.mu.Unlock()

	s.logger.Info("occupant removed", zap.String("office_id", officeID), zap.String("name", prev.Name), zap.Int64("occupant_id", prev.ID))
	s.changed(ref.floor, officeID)
	return nil
}

// locate finds prev in office. A stored occupant is found by id wherever
// it now sits; an unsaved one must still be at index i unchanged.
func locate(office floorplan.Office, i int, prev floorplan.Occupant) (int, error) {
	if prev.ID != 0 {
		if j := find(office.Occupants, prev.ID); j >= 0 {
			return j, nil
		}
		return -1, fmt.Errorf("%w: occupant %d of %s", ErrOccupantChanged, prev.ID, office.ID)
	}
	if i < 0 || i >= len(office.Occupants) {
		return -1, fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, office.ID, i)
	}
	if office.Occupants[i] != prev {
		return -1, fmt.Errorf("%w: %s[%d]", ErrOccupantChanged, office.ID, i)
	}
	return i, nil
}

func find(occupants []floorplan.Occupant, id int64) int {
	for j, o := range occupants {
		if o.ID == id {
			return j
		}
	}
	return -1
}

// lookup returns a private copy of an office. Callers hold s.mu.
func (s *State) lookup(officeID string) (floorplan.Office, officeRef, error) {
	if !s.loaded {
		return floorplan.Office{}, officeRef{}, ErrNotLoaded
	}
	ref, ok := s.index[officeID]
	if !ok {
		return floorplan.Office{}, officeRef{}, fmt.Errorf("%w: %s", ErrUnknownOffice, officeID)
	}
	return s.offices[ref.floor][ref.pos].Clone(), ref, nil
}

// commit stores office and re-renders if it is on the displayed floor.
// Callers hold s.mu.
func (s *State) commit(ref officeRef, office floorplan.Office) {
	s.offices[ref.floor][ref.pos] = office
	if ref.floor == s.current {
		s.renderer.Render(s.offices[s.current])
	}
}

func (s *State) changed(floor int, officeID string) {
	if s.onChange != nil {
		s.onChange(floor, officeID)
	}
}
