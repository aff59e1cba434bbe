package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/occupancy"
)

// ReadCSV parses a roster CSV. The first row must be the header.
func ReadCSV(r io.Reader, name string, logger *zap.Logger) ([]occupancy.Record, Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sum := Summary{File: name}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sum, fmt.Errorf("reading %s: %w", name, err)
		}
		rows = append(rows, row)
	}

	records, err := parseTable(rows, &sum, logger)
	if err != nil {
		return nil, sum, fmt.Errorf("parsing %s: %w", name, err)
	}
	return records, sum, nil
}
