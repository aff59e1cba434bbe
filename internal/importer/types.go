// Package importer loads roster spreadsheets into the assignment store and
// exports the roster back out.
package importer

import "errors"

// Lowercased column headers recognised in roster files.
const (
	HeaderRoom        = "room number"
	HeaderName        = "full name"
	HeaderAppointment = "appointment type"
	HeaderStart       = "start date"
	HeaderEnd         = "end date"
)

var expectedHeaders = []string{HeaderRoom, HeaderName, HeaderAppointment, HeaderStart, HeaderEnd}

var essentialHeaders = []string{HeaderRoom, HeaderName}

var (
	ErrNoHeader          = errors.New("no header row")
	ErrMissingHeader     = errors.New("missing essential header")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoFiles           = errors.New("no files matched")
)

// Summary reports the outcome of importing one file.
type Summary struct {
	File string `json:"file"`
	// Processed counts every row read, the header included.
	Processed      int      `json:"processed"`
	Inserted       int      `json:"inserted"`
	Skipped        int      `json:"skipped"`
	MissingHeaders []string `json:"missing_headers,omitempty"`
	BadDates       int      `json:"bad_dates"`
}
