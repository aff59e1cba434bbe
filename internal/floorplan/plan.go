package floorplan

import (
	"sort"

	"go.uber.org/zap"
)

// Plan is the immutable layout universe: every floor, its room order and
// the precomputed grid positions.
type Plan struct {
	grid    Grid
	floors  []Floor
	layouts map[int]FloorLayout
	floorOf map[string]int
}

// NewPlan computes the layout of every floor once.
func NewPlan(floors []Floor, g Grid) *Plan {
	p := &Plan{
		grid:    g,
		floors:  append([]Floor(nil), floors...),
		layouts: make(map[int]FloorLayout, len(floors)),
		floorOf: make(map[string]int),
	}
	for _, f := range floors {
		p.layouts[f.Number] = CalculateLayout(f.Rooms, g)
		for _, r := range f.Rooms {
			if _, ok := p.floorOf[r]; !ok {
				p.floorOf[r] = f.Number
			}
		}
	}
	return p
}

// Grid returns the cell geometry.
func (p *Plan) Grid() Grid { return p.grid }

// Floors returns the floor definitions in configuration order.
func (p *Plan) Floors() []Floor { return append([]Floor(nil), p.floors...) }

// HasFloor reports whether n is a defined floor.
func (p *Plan) HasFloor(n int) bool {
	_, ok := p.layouts[n]
	return ok
}

// Layout returns the positions for floor n.
func (p *Plan) Layout(n int) (FloorLayout, bool) {
	l, ok := p.layouts[n]
	return l, ok
}

// FloorOf returns the floor an office belongs to.
func (p *Plan) FloorOf(officeID string) (int, bool) {
	n, ok := p.floorOf[officeID]
	return n, ok
}

// Build merges fetched data into per-floor office lists. Offices without a
// layout entry are skipped with a warning; layout rooms missing from the data
// are added empty. Each floor is sorted by ID in natural order.
func (p *Plan) Build(data Dataset, logger *zap.Logger) map[int][]Office {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make(map[int][]Office, len(p.floors))
	for _, f := range p.floors {
		out[f.Number] = make([]Office, 0, len(f.Rooms))
	}

	placed := make(map[string]bool, len(data))
	for id, occupants := range data {
		n, ok := p.floorOf[id]
		if !ok {
			logger.Warn("office in data but not in any floor layout, skipping",
				zap.String("office_id", id),
				zap.Int("occupants", len(occupants)),
			)
			continue
		}
		out[n] = append(out[n], p.office(n, id, occupants))
		placed[id] = true
	}

	for _, f := range p.floors {
		for _, id := range f.Rooms {
			if placed[id] {
				continue
			}
			placed[id] = true
			logger.Debug("office in layout but not in data", zap.String("office_id", id))
			out[f.Number] = append(out[f.Number], p.office(f.Number, id, nil))
		}
		offices := out[f.Number]
		sort.Slice(offices, func(i, j int) bool { return NaturalLess(offices[i].ID, offices[j].ID) })
	}
	return out
}

func (p *Plan) office(floor int, id string, occupants []Occupant) Office {
	pos := p.layouts[floor][id]
	occ := append([]Occupant{}, occupants...)
	return Office{
		ID:        id,
		Floor:     floor,
		X:         pos.X,
		Y:         pos.Y,
		Width:     p.grid.Width,
		Height:    p.grid.Height,
		Occupants: occ,
	}
}
