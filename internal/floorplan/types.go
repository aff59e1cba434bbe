// Package floorplan holds the static floor definitions, the grid layout
// calculator and the office model that the renderer draws.
package floorplan

// Occupant is a person assigned to an office. ID is the store's occupant
// id; it is zero for occupants that have not been persisted.
type Occupant struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	Temporary bool   `json:"temporary"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Office is a fixed-position box on a floor.
type Office struct {
	ID        string     `json:"id"`
	Floor     int        `json:"floor"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Occupants []Occupant `json:"occupants"`
}

// Occupied reports whether anyone is assigned to the office.
func (o Office) Occupied() bool { return len(o.Occupants) > 0 }

// Clone returns a copy whose occupant slice does not alias o's.
func (o Office) Clone() Office {
	c := o
	c.Occupants = append([]Occupant(nil), o.Occupants...)
	return c
}

// Point is a precomputed grid position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FloorLayout maps an office ID to its grid position.
type FloorLayout map[string]Point

// Grid holds the fixed cell geometry shared by every floor.
type Grid struct {
	StartX  float64
	StartY  float64
	Width   float64
	Height  float64
	GapX    float64
	GapY    float64
	PerRow  int
	Padding float64
}

// DefaultGrid matches the original six-wide 100px layout.
var DefaultGrid = Grid{
	StartX:  50,
	StartY:  50,
	Width:   100,
	Height:  100,
	GapX:    20,
	GapY:    30,
	PerRow:  6,
	Padding: 50,
}

// Dataset is the occupancy data fetched from the server, keyed by office ID.
type Dataset map[string][]Occupant
