package occupancy

import (
	"context"

	"github.com/ziadkadry99/officespace/internal/floorplan"
)

// Backend adapts a Service to the application state's data source and
// write-through persister.
type Backend struct {
	svc *Service
}

// NewBackend wraps svc.
func NewBackend(svc *Service) *Backend {
	return &Backend{svc: svc}
}

// FetchOffices returns the dataset in floor-plan form.
func (b *Backend) FetchOffices(ctx context.Context) (floorplan.Dataset, error) {
	grouped, err := b.svc.Offices(ctx)
	if err != nil {
		return nil, err
	}
	return Dataset(grouped), nil
}

// CreateOccupant stores a new occupant. The popup has already decided the
// temporary flag, so it is sent explicitly.
func (b *Backend) CreateOccupant(ctx context.Context, officeID string, o floorplan.Occupant) (floorplan.Occupant, error) {
	r, err := b.svc.Add(ctx, officeID, InputFrom(o))
	if err != nil {
		return floorplan.Occupant{}, err
	}
	return r.Occupant(), nil
}

// UpdateOccupant stores an edited occupant.
func (b *Backend) UpdateOccupant(ctx context.Context, o floorplan.Occupant) (floorplan.Occupant, error) {
	r, err := b.svc.Update(ctx, o.ID, InputFrom(o))
	if err != nil {
		return floorplan.Occupant{}, err
	}
	return r.Occupant(), nil
}

// DeleteOccupant removes an occupant.
func (b *Backend) DeleteOccupant(ctx context.Context, id int64) error {
	_, err := b.svc.Delete(ctx, id)
	return err
}

// Dataset converts grouped records to the floor-plan dataset.
func Dataset(grouped map[string][]Record) floorplan.Dataset {
	out := make(floorplan.Dataset, len(grouped))
	for id, records := range grouped {
		occ := make([]floorplan.Occupant, len(records))
		for i, r := range records {
			occ[i] = r.Occupant()
		}
		out[id] = occ
	}
	return out
}
