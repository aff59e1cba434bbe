// Package occupancy stores office assignments and serves the occupancy API.
package occupancy

import (
	"errors"

	"github.com/ziadkadry99/officespace/internal/floorplan"
)

var (
	ErrNotFound     = errors.New("occupant not found")
	ErrNameRequired = errors.New("missing 'name' field")
	ErrOfficeID     = errors.New("missing office id")
)

// Record is one row of office_assignments. Empty dates and appointment
// types are stored as NULL.
type Record struct {
	ID              int64  `json:"occupant_id"`
	OfficeID        string `json:"-"`
	FullName        string `json:"full_name"`
	AppointmentType string `json:"appointment_type"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Temporary       bool   `json:"temporary"`
}

// Occupant converts the record to the floor-plan model.
func (r Record) Occupant() floorplan.Occupant {
	return floorplan.Occupant{
		ID:        r.ID,
		Name:      r.FullName,
		Temporary: r.Temporary,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

// Office is the per-office entry of GET /api/offices.
type Office struct {
	Occupants []Record `json:"occupants"`
}

// Input is the request body of the write endpoints. Temporary is a pointer
// so an update can tell "not sent" from false.
type Input struct {
	Name            string `json:"name"`
	AppointmentType string `json:"appointment_type,omitempty"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	Temporary       *bool  `json:"temporary,omitempty"`
}

// InputFrom builds an Input carrying an explicit temporary flag.
func InputFrom(o floorplan.Occupant) Input {
	temp := o.Temporary
	return Input{Name: o.Name, StartDate: o.StartDate, EndDate: o.EndDate, Temporary: &temp}
}
