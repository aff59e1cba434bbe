package popup

import (
	"github.com/ziadkadry99/officespace/internal/floorplan"
	"github.com/ziadkadry99/officespace/internal/render"
)

// View is everything a front end needs to draw the dialog.
type View struct {
	State      string   `json:"state"`
	OfficeID   string   `json:"office_id,omitempty"`
	Title      string   `json:"title,omitempty"`
	Occupants  []string `json:"occupants,omitempty"`
	EmptyText  string   `json:"empty_text,omitempty"`
	ShowForm   bool     `json:"show_form"`
	ModeLabel  string   `json:"mode_label,omitempty"`
	SaveLabel  string   `json:"save_label,omitempty"`
	ShowDelete bool     `json:"show_delete"`
	ShowDates  bool     `json:"show_dates"`
	EditIndex  int      `json:"edit_index"`
	Form       Form     `json:"form"`

	// DeletePrompt names the occupant picked for editing, not the form's
	// possibly edited name.
	DeletePrompt string `json:"delete_prompt,omitempty"`
}

// View snapshots the dialog for drawing.
func (m *Machine) View() View {
	v := View{State: m.state.String(), EditIndex: -1}
	if m.state == Closed {
		return v
	}

	v.OfficeID = m.officeID
	v.Title = "Edit Office " + m.officeID
	if office, ok := m.target.Office(m.officeID); ok {
		for _, o := range office.Occupants {
			v.Occupants = append(v.Occupants, ListLabel(o))
		}
	}
	if len(v.Occupants) == 0 {
		v.EmptyText = "No occupants assigned."
	}

	if m.state != Editing {
		return v
	}
	v.ShowForm = true
	v.Form = m.form
	v.ShowDates = m.form.Temporary
	if m.mode == ModeModify {
		v.ModeLabel = "Editing: " + m.form.Name
		v.SaveLabel = "Save Changes"
		v.ShowDelete = true
		v.DeletePrompt = DeletePrompt(m.chosen)
		v.EditIndex = m.index
	} else {
		v.ModeLabel = "Add New Occupant"
		v.SaveLabel = "Add Occupant"
	}
	return v
}

// ListLabel is the occupant line shown in the dialog list.
func ListLabel(o floorplan.Occupant) string {
	text := render.DisplayName(o)
	if !o.Temporary {
		return text
	}
	switch {
	case o.StartDate != "" && o.EndDate != "":
		return text + " (Temp: " + o.StartDate + " → " + o.EndDate + ")"
	case o.StartDate != "":
		return text + " (Temp: From " + o.StartDate + ")"
	case o.EndDate != "":
		return text + " (Temp: Until " + o.EndDate + ")"
	default:
		return text + " (Temp)"
	}
}
