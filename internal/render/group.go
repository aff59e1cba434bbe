// Package render turns a floor's offices into keyed SVG groups and computes
// the create/update/delete operations needed to move from one rendering to
// the next.
package render

import (
	"slices"

	"github.com/ziadkadry99/officespace/internal/config"
	"github.com/ziadkadry99/officespace/internal/floorplan"
	"github.com/ziadkadry99/officespace/internal/textwrap"
)

// Style holds the text metrics used inside an office box.
type Style struct {
	NameFontSize    float64
	DateFontSize    float64
	NameLineHeight  float64
	DateLineHeight  float64
	NameTopMargin   float64
	OccupantSpacing float64
	BoxPadding      float64
	IDLabelY        float64
}

// DefaultStyle matches the box text layout of the original floor page.
var DefaultStyle = Style{
	NameFontSize:    10,
	DateFontSize:    9,
	NameLineHeight:  11,
	DateLineHeight:  10,
	NameTopMargin:   28,
	OccupantSpacing: 5,
	BoxPadding:      5,
	IDLabelY:        15,
}

// StyleFromConfig maps the text section of the config onto a Style.
func StyleFromConfig(c config.TextConfig) Style {
	s := DefaultStyle
	s.NameFontSize = c.NameFontSize
	s.DateFontSize = c.DateFontSize
	s.NameLineHeight = c.NameLineHeight
	s.DateLineHeight = c.DateLineHeight
	s.NameTopMargin = c.NameTopMargin
	s.OccupantSpacing = c.OccupantSpacing
	s.BoxPadding = c.BoxPadding
	return s
}

// OccupantText is the wrapped name and optional date lines of one occupant.
type OccupantText struct {
	Name  []textwrap.Line `json:"name"`
	Dates []textwrap.Line `json:"dates,omitempty"`
}

// Group is the visual element for one office, keyed by office ID.
type Group struct {
	ID        string         `json:"id"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Occupied  bool           `json:"occupied"`
	LabelY    float64        `json:"label_y"`
	Occupants []OccupantText `json:"occupants"`
}

// Class is the CSS class of the group element.
func (g Group) Class() string {
	if g.Occupied {
		return "office-group occupied"
	}
	return "office-group"
}

// RectClass is the CSS class of the office rectangle.
func (g Group) RectClass() string {
	if g.Occupied {
		return "office occupied"
	}
	return "office"
}

// Equal reports whether two groups would draw identically.
func (g Group) Equal(o Group) bool {
	if g.ID != o.ID || g.X != o.X || g.Y != o.Y || g.Width != o.Width || g.Height != o.Height ||
		g.Occupied != o.Occupied || g.LabelY != o.LabelY || len(g.Occupants) != len(o.Occupants) {
		return false
	}
	for i := range g.Occupants {
		if !slices.Equal(g.Occupants[i].Name, o.Occupants[i].Name) ||
			!slices.Equal(g.Occupants[i].Dates, o.Occupants[i].Dates) {
			return false
		}
	}
	return true
}

// DateLabel is the parenthesised date line drawn under a temporary
// occupant. Permanent occupants have none.
func DateLabel(o floorplan.Occupant) (string, bool) {
	if !o.Temporary {
		return "", false
	}
	switch {
	case o.StartDate != "" && o.EndDate != "":
		return "(" + o.StartDate + " → " + o.EndDate + ")", true
	case o.StartDate != "":
		return "(From " + o.StartDate + ")", true
	case o.EndDate != "":
		return "(Until " + o.EndDate + ")", true
	default:
		return "(Temporary)", true
	}
}

// DisplayName falls back to "Unnamed" for a blank name.
func DisplayName(o floorplan.Occupant) string {
	if o.Name == "" {
		return "Unnamed"
	}
	return o.Name
}

// BuildGroup lays out an office's occupant text top to bottom: each name is
// wrapped to the padded box width, followed by its date line when the
// occupant is temporary, then a fixed gap before the next occupant.
func BuildGroup(o floorplan.Office, s Style, names, dates textwrap.Measurer) Group {
	g := Group{
		ID:        o.ID,
		X:         o.X,
		Y:         o.Y,
		Width:     o.Width,
		Height:    o.Height,
		Occupied:  o.Occupied(),
		LabelY:    s.IDLabelY,
		Occupants: make([]OccupantText, 0, len(o.Occupants)),
	}

	avail := o.Width - 2*s.BoxPadding
	y := s.NameTopMargin
	for _, occ := range o.Occupants {
		name := textwrap.Layout(DisplayName(occ), avail, s.NameLineHeight, y, names)
		y += name.Height(s.NameLineHeight)
		t := OccupantText{Name: name.Lines}

		if label, ok := DateLabel(occ); ok {
			d := textwrap.Layout(label, avail, s.DateLineHeight, y, dates)
			y += d.Height(s.DateLineHeight)
			t.Dates = d.Lines
		}
		y += s.OccupantSpacing
		g.Occupants = append(g.Occupants, t)
	}
	return g
}
