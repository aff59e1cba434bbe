// Package app owns the floor-plan application state: the loaded offices,
// the floor being displayed and the renderer that draws it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/config"
	"github.com/ziadkadry99/officespace/internal/floorplan"
	"github.com/ziadkadry99/officespace/internal/render"
)

var (
	ErrNotLoaded       = errors.New("office data not loaded")
	ErrUnknownFloor    = errors.New("unknown floor")
	ErrUnknownOffice   = errors.New("unknown office")
	ErrIndexOutOfRange = errors.New("occupant index out of range")
	ErrOccupantChanged = errors.New("occupant was changed or removed by someone else")
)

// Source fetches the occupancy dataset.
type Source interface {
	FetchOffices(ctx context.Context) (floorplan.Dataset, error)
}

// Persister stores occupant edits before they are applied in memory.
type Persister interface {
	CreateOccupant(ctx context.Context, officeID string, o floorplan.Occupant) (floorplan.Occupant, error)
	UpdateOccupant(ctx context.Context, o floorplan.Occupant) (floorplan.Occupant, error)
	DeleteOccupant(ctx context.Context, id int64) error
}

// ChangeFunc is called after an office's occupants change.
type ChangeFunc func(floor int, officeID string)

// Option configures a State.
type Option func(*State)

// WithPersister makes every edit write through to p first.
func WithPersister(p Persister) Option {
	return func(s *State) { s.persister = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *State) { s.logger = l }
}

// WithChangeHook registers fn to run after each committed edit.
func WithChangeHook(fn ChangeFunc) Option {
	return func(s *State) { s.onChange = fn }
}

type officeRef struct {
	floor int
	pos   int
}

// State is safe for concurrent use.
type State struct {
	mu        sync.RWMutex
	plan      *floorplan.Plan
	renderer  *render.Renderer
	persister Persister
	logger    *zap.Logger
	onChange  ChangeFunc

	loaded  bool
	current int
	offices map[int][]floorplan.Office
	index   map[string]officeRef
}

// New creates an unloaded state showing the plan's first floor.
func New(plan *floorplan.Plan, r *render.Renderer, opts ...Option) *State {
	s := &State{
		plan:     plan,
		renderer: r,
		logger:   zap.NewNop(),
	}
	if floors := plan.Floors(); len(floors) > 0 {
		s.current = floors[0].Number
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig loads the floors file, computes the layout and builds a
// font-measuring renderer.
func NewFromConfig(cfg *config.Config, opts ...Option) (*State, error) {
	floors, err := floorplan.LoadFloors(cfg.FloorsFile)
	if err != nil {
		return nil, err
	}
	plan := floorplan.NewPlan(floors, GridFromConfig(cfg.Grid))
	r, err := render.NewWithFonts(plan.Grid(), render.StyleFromConfig(cfg.Text))
	if err != nil {
		return nil, err
	}
	return New(plan, r, opts...), nil
}

// GridFromConfig maps the grid section of the config onto a Grid.
func GridFromConfig(g config.GridConfig) floorplan.Grid {
	return floorplan.Grid{
		StartX:  g.StartX,
		StartY:  g.StartY,
		Width:   g.Width,
		Height:  g.Height,
		GapX:    g.GapX,
		GapY:    g.GapY,
		PerRow:  g.PerRow,
		Padding: g.Padding,
	}
}

// Plan returns the immutable floor plan.
func (s *State) Plan() *floorplan.Plan { return s.plan }

// Load fetches the dataset once and rebuilds every floor. On failure the
// previous data, if any, is kept.
func (s *State) Load(ctx context.Context, src Source) error {
	data, err := src.FetchOffices(ctx)
	if err != nil {
		return fmt.Errorf("fetching offices: %w", err)
	}
	floors := s.plan.Build(data, s.logger)

	index := make(map[string]officeRef)
	for n, offices := range floors {
		for i, o := range offices {
			index[o.ID] = officeRef{floor: n, pos: i}
		}
	}

	s.mu.Lock()
	s.offices = floors
	s.index = index
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("offices loaded", zap.Int("offices", len(index)), zap.Int("with_data", len(data)))
	return nil
}

// Loaded reports whether a Load has succeeded.
func (s *State) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// CurrentFloor returns the floor being displayed.
func (s *State) CurrentFloor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// DisplayFloor switches the displayed floor and re-renders it. Occupant
// data is never touched.
func (s *State) DisplayFloor(n int) (render.Ops, error) {
	if !s.plan.HasFloor(n) {
		return render.Ops{}, fmt.Errorf("%w: %d", ErrUnknownFloor, n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return render.Ops{}, ErrNotLoaded
	}
	s.current = n
	return s.renderer.Render(s.offices[n]), nil
}

// Offices returns a copy of floor n's offices in display order.
func (s *State) Offices(n int) ([]floorplan.Office, error) {
	if !s.plan.HasFloor(n) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFloor, n)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	out := make([]floorplan.Office, len(s.offices[n]))
	for i, o := range s.offices[n] {
		out[i] = o.Clone()
	}
	return out, nil
}

// Office returns a copy of one office.
func (s *State) Office(id string) (floorplan.Office, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.index[id]
	if !ok {
		return floorplan.Office{}, false
	}
	return s.offices[ref.floor][ref.pos].Clone(), true
}

// Render reconciles the current floor against what was last drawn.
func (s *State) Render() (render.Ops, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return render.Ops{}, ErrNotLoaded
	}
	return s.renderer.Render(s.offices[s.current]), nil
}

// WriteSVG renders the current floor and writes it as SVG.
func (s *State) WriteSVG(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	s.renderer.Render(s.offices[s.current])
	return s.renderer.WriteSVG(w)
}

// WriteFloorSVG writes floor n without changing the displayed floor.
func (s *State) WriteFloorSVG(w io.Writer, n int) error {
	offices, err := s.Offices(n)
	if err != nil {
		return err
	}
	r := s.renderer.Fork()
	r.Render(offices)
	return r.WriteSVG(w)
}

// Scene returns the laid-out groups of floor n.
func (s *State) Scene(n int) ([]render.Group, error) {
	offices, err := s.Offices(n)
	if err != nil {
		return nil, err
	}
	return s.renderer.Fork().Build(offices), nil
}

// Renderer returns a fresh renderer with the state's geometry, for callers
// that keep their own keyed set.
func (s *State) Renderer() *render.Renderer { return s.renderer.Fork() }
