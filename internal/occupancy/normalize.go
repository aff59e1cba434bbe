package occupancy

import "strings"

// fields is a validated, normalized assignment ready to be written.
type fields struct {
	name            string
	appointmentType string
	startDate       string
	endDate         string
	temporary       bool
}

// normalizeCreate applies the rules for a new assignment: an end date
// without the temporary flag makes it temporary, and a permanent
// assignment keeps no dates.
func normalizeCreate(in Input) (fields, error) {
	f, err := trimmed(in)
	if err != nil {
		return f, err
	}
	f.temporary = in.Temporary != nil && *in.Temporary
	if f.endDate != "" && !f.temporary {
		f.temporary = true
	}
	if !f.temporary {
		f.startDate, f.endDate = "", ""
	}
	return f, nil
}

// normalizeUpdate applies the rules for an update: when the flag is not
// sent it is inferred from either date, and a permanent assignment keeps
// no dates.
func normalizeUpdate(in Input) (fields, error) {
	f, err := trimmed(in)
	if err != nil {
		return f, err
	}
	if in.Temporary == nil {
		f.temporary = f.startDate != "" || f.endDate != ""
	} else {
		f.temporary = *in.Temporary
	}
	if !f.temporary {
		f.startDate, f.endDate = "", ""
	}
	return f, nil
}

func trimmed(in Input) (fields, error) {
	f := fields{
		name:            strings.TrimSpace(in.Name),
		appointmentType: strings.TrimSpace(in.AppointmentType),
		startDate:       strings.TrimSpace(in.StartDate),
		endDate:         strings.TrimSpace(in.EndDate),
	}
	if f.name == "" {
		return f, ErrNameRequired
	}
	return f, nil
}
