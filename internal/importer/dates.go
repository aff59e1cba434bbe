package importer

import (
	"errors"
	"strings"
	"time"
)

// ErrBadDate is returned for a date in none of the accepted layouts.
var ErrBadDate = errors.New("unrecognised date")

const isoLayout = "2006-01-02"

var dateLayouts = []string{"1/2/06", "1/2/2006", isoLayout}

// ParseDate converts M/D/YY, M/D/YYYY or YYYY-MM-DD to YYYY-MM-DD. A blank
// string is not an error and yields "".
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoLayout), nil
		}
	}
	return "", ErrBadDate
}

// FormatDateForInput turns a roster date into the value a date input
// expects. Two-digit years are read as 20YY. Already formatted dates pass
// through; anything malformed yields "".
func FormatDateForInput(s string) string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(isoLayout, s); err == nil {
		return s
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return ""
	}
	month, day, year := parts[0], parts[1], parts[2]
	if !digits(month, 1, 2) || !digits(day, 1, 2) {
		return ""
	}
	switch {
	case digits(year, 2, 2):
		year = "20" + year
	case digits(year, 4, 4):
	default:
		return ""
	}
	return year + "-" + pad2(month) + "-" + pad2(day)
}

func digits(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
