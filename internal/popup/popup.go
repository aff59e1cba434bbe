// Package popup implements the office edit dialog as a state machine that
// is independent of any UI toolkit. The web page and the CLI drive it with
// events and draw whatever View returns.
package popup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/officespace/internal/floorplan"
)

var (
	ErrUnknownOffice   = errors.New("unknown office")
	ErrIndexOutOfRange = errors.New("occupant index out of range")
	ErrEmptyName       = errors.New("occupant name cannot be empty")
	ErrInvalidState    = errors.New("event not valid in current state")
)

// State is the dialog state.
type State int

const (
	Closed State = iota
	Viewing
	Editing
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mode distinguishes adding a new occupant from modifying an existing one.
type Mode int

const (
	ModeAdd Mode = iota
	ModeModify
)

// Target is the office data the dialog reads and edits.
type Target interface {
	Office(id string) (floorplan.Office, bool)
	AddOccupant(ctx context.Context, officeID string, o floorplan.Occupant) error
	// ReplaceOccupant and RemoveOccupant receive the occupant as it was
	// when the dialog picked it, so a target shared by several dialogs can
	// refuse to touch someone else.
	ReplaceOccupant(ctx context.Context, officeID string, index int, prev, o floorplan.Occupant) error
	RemoveOccupant(ctx context.Context, officeID string, index int, prev floorplan.Occupant) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always is a Confirmer that accepts every prompt.
var Always = ConfirmFunc(func(string) bool { return true })

// Form holds the edit field values.
type Form struct {
	Name      string `json:"name"`
	Temporary bool   `json:"temporary"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Normalize trims the fields and drops dates from a permanent occupant.
func (f Form) Normalize() (floorplan.Occupant, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return floorplan.Occupant{}, ErrEmptyName
	}
	o := floorplan.Occupant{Name: name, Temporary: f.Temporary}
	if f.Temporary {
		o.StartDate = strings.TrimSpace(f.StartDate)
		o.EndDate = strings.TrimSpace(f.EndDate)
	}
	return o, nil
}

// Machine is one open-or-closed dialog. It is not safe for concurrent use.
type Machine struct {
	target   Target
	confirm  Confirmer
	state    State
	officeID string
	mode     Mode
	index    int
	chosen   floorplan.Occupant
	form     Form
}

// New returns a closed dialog. A nil confirmer accepts every deletion.
func New(target Target, confirm Confirmer) *Machine {
	if confirm == nil {
		confirm = Always
	}
	return &Machine{target: target, confirm: confirm, index: -1}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// OfficeID returns the selected office, empty when closed.
func (m *Machine) OfficeID() string { return m.officeID }

// Open selects an office and shows its occupant list.
func (m *Machine) Open(officeID string) error {
	if _, ok := m.target.Office(officeID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOffice, officeID)
	}
	m.state = Viewing
	m.officeID = officeID
	m.resetForm()
	return nil
}

// Edit prefills the form from the occupant at index i.
func (m *Machine) Edit(i int) error {
	if m.state != Viewing && m.state != Editing {
		return ErrInvalidState
	}
	office, err := m.office()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(office.Occupants) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	o := office.Occupants[i]
	m.state = Editing
	m.mode = ModeModify
	m.index = i
	m.chosen = o
	m.form = Form{Name: o.Name, Temporary: o.Temporary, StartDate: o.StartDate, EndDate: o.EndDate}
	return nil
}

// Add shows an empty form for a new occupant.
func (m *Machine) Add() error {
	if m.state != Viewing && m.state != Editing {
		return ErrInvalidState
	}
	m.state = Editing
	m.mode = ModeAdd
	m.index = -1
	m.chosen = floorplan.Occupant{}
	m.form = Form{}
	return nil
}

// Save validates the form, commits it to the target and returns to the
// occupant list. An invalid form leaves the dialog untouched.
func (m *Machine) Save(ctx context.Context, f Form) error {
	if m.state != Editing {
		return ErrInvalidState
	}
	o, err := f.Normalize()
	if err != nil {
		return err
	}

	if m.mode == ModeModify {
		err = m.target.ReplaceOccupant(ctx, m.officeID, m.index, m.chosen, o)
	} else {
		err = m.target.AddOccupant(ctx, m.officeID, o)
	}
	if err != nil {
		return fmt.Errorf("saving occupant of %s: %w", m.officeID, err)
	}
	m.state = Viewing
	m.resetForm()
	return nil
}

// Delete removes the occupant being edited after confirmation. It reports
// whether anything was removed; a declined prompt keeps the form open, and
// a form with no valid occupant selected is a no-op.
func (m *Machine) Delete(ctx context.Context) (bool, error) {
	if m.state != Editing {
		return false, ErrInvalidState
	}
	if m.mode != ModeModify || m.index < 0 {
		return false, nil
	}
	office, err := m.office()
	if err != nil {
		return false, err
	}
	if m.chosen.ID == 0 && m.index >= len(office.Occupants) {
		return false, nil
	}

	if !m.confirm.Confirm(DeletePrompt(m.chosen)) {
		return false, nil
	}
	if err := m.target.RemoveOccupant(ctx, m.officeID, m.index, m.chosen); err != nil {
		return false, fmt.Errorf("removing occupant of %s: %w", m.officeID, err)
	}
	m.state = Viewing
	m.resetForm()
	return true, nil
}

// Cancel discards the form and returns to the occupant list.
func (m *Machine) Cancel() error {
	if m.state != Editing {
		return ErrInvalidState
	}
	m.state = Viewing
	m.resetForm()
	return nil
}

// Close hides the dialog from any state.
func (m *Machine) Close() {
	m.state = Closed
	m.officeID = ""
	m.resetForm()
}

// Backdrop is a click outside the dialog; it closes it.
func (m *Machine) Backdrop() { m.Close() }

func (m *Machine) office() (floorplan.Office, error) {
	o, ok := m.target.Office(m.officeID)
	if !ok {
		return floorplan.Office{}, fmt.Errorf("%w: %s", ErrUnknownOffice, m.officeID)
	}
	return o, nil
}

func (m *Machine) resetForm() {
	m.mode = ModeAdd
	m.index = -1
	m.chosen = floorplan.Occupant{}
	m.form = Form{}
}

// DeletePrompt is the question asked before o is removed.
func DeletePrompt(o floorplan.Occupant) string {
	return fmt.Sprintf("Are you sure you want to remove %s?", o.Name)
}
