package importer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/occupancy"
)

// parseTable converts a header row plus data rows into assignment records.
// Rows without a room or a name are skipped; unparseable dates are dropped.
func parseTable(rows [][]string, sum *Summary, logger *zap.Logger) ([]occupancy.Record, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	columns := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if i == 0 {
			key = strings.TrimSpace(strings.TrimPrefix(key, "\ufeff"))
		}
		columns[key] = i
	}

	for _, h := range expectedHeaders {
		if _, ok := columns[h]; !ok {
			sum.MissingHeaders = append(sum.MissingHeaders, h)
		}
	}
	var missing []string
	for _, h := range essentialHeaders {
		if _, ok := columns[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingHeader, strings.Join(missing, ", "))
	}
	if len(sum.MissingHeaders) > 0 {
		logger.Warn("optional headers missing, using defaults",
			zap.String("file", sum.File), zap.Strings("headers", sum.MissingHeaders))
	}

	cell := func(row []string, header string) string {
		i, ok := columns[header]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	date := func(row []string, header string, line int) string {
		raw := cell(row, header)
		iso, err := ParseDate(raw)
		if err != nil {
			sum.BadDates++
			logger.Warn("could not parse date, skipping it",
				zap.String("file", sum.File), zap.Int("row", line), zap.String("value", raw))
		}
		return iso
	}

	sum.Processed = 1
	var records []occupancy.Record
	for i, row := range rows[1:] {
		line := i + 2
		sum.Processed++

		room, name := cell(row, HeaderRoom), cell(row, HeaderName)
		if room == "" || name == "" {
			sum.Skipped++
			logger.Info("skipping row without room number or full name",
				zap.String("file", sum.File), zap.Int("row", line))
			continue
		}
		end := date(row, HeaderEnd, line)
		records = append(records, occupancy.Record{
			OfficeID:        room,
			FullName:        name,
			AppointmentType: cell(row, HeaderAppointment),
			StartDate:       date(row, HeaderStart, line),
			EndDate:         end,
			Temporary:       end != "",
		})
	}
	return records, nil
}
