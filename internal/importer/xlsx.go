package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/occupancy"
)

// RosterSheet is the sheet name used for exports.
const RosterSheet = "Roster"

var exportHeaders = []string{"Room Number", "Full Name", "Appointment Type", "Start Date", "End Date", "Temporary"}

var exportWidths = []float64{14, 30, 20, 14, 14, 12}

// ReadXLSX parses the first sheet of a roster workbook.
func ReadXLSX(r io.Reader, name string, logger *zap.Logger) ([]occupancy.Record, Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sum := Summary{File: name}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, sum, fmt.Errorf("opening workbook %s: %w", name, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, sum, fmt.Errorf("parsing %s: %w", name, ErrNoHeader)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, sum, fmt.Errorf("reading rows of %s: %w", name, err)
	}

	records, err := parseTable(rows, &sum, logger)
	if err != nil {
		return nil, sum, fmt.Errorf("parsing %s: %w", name, err)
	}
	return records, sum, nil
}

// WriteXLSX writes the roster as a workbook with a styled, frozen header row.
func WriteXLSX(w io.Writer, records []occupancy.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RosterSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, h := range exportHeaders {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(RosterSheet, col+"1", h); err != nil {
			return fmt.Errorf("setting header %s: %w", h, err)
		}
		if err := f.SetColWidth(RosterSheet, col, col, exportWidths[i]); err != nil {
			return fmt.Errorf("setting width of %s: %w", col, err)
		}
	}
	last, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetCellStyle(RosterSheet, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		temporary := "No"
		if r.Temporary {
			temporary = "Yes"
		}
		row := []any{r.OfficeID, r.FullName, r.AppointmentType, r.StartDate, r.EndDate, temporary}
		if err := f.SetSheetRow(RosterSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(RosterSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
