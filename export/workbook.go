package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"ecowatch/models"
)

const (
	usageSheet   = "Weekly Usage"
	reportsSheet = "Pollution Reports"
)

var reportsHeader = []string{
	"ID", "Reported", "Reporter", "Severity", "Status", "Address", "Latitude", "Longitude", "Tagged Officials", "Updates", "Comment",
}

var reportsColumnWidths = []float64{10, 14, 12, 10, 14, 32, 12, 12, 40, 10, 60}

// Workbook builds an XLSX file with weekly usage and pollution report sheets
func Workbook(usage []models.HistoricalDataPoint, reports []models.PollutionReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	usageIdx, err := f.NewSheet(usageSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(reportsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(usageIdx)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	usageRows := make([][]interface{}, 0, len(usage))
	for _, p := range usage {
		usageRows = append(usageRows, []interface{}{p.Date, p.Usage, p.Quality})
	}
	if err := writeSheet(f, usageSheet, HouseholdUsageHeader, usageRows, headerStyle, []float64{12, 16, 16}); err != nil {
		return nil, err
	}

	reportRows := make([][]interface{}, 0, len(reports))
	for _, r := range reports {
		names := make([]string, 0, len(r.TaggedOfficials))
		for _, o := range r.TaggedOfficials {
			names = append(names, o.Name)
		}
		reportRows = append(reportRows, []interface{}{
			r.ID, r.Timestamp, r.ReporterID, r.Severity, string(r.CurrentStatus()), r.Location.Address,
			r.Location.Latitude, r.Location.Longitude, strings.Join(names, ", "), len(r.Updates), r.Comment,
		})
	}
	if err := writeSheet(f, reportsSheet, reportsHeader, reportRows, headerStyle, reportsColumnWidths); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, headerStyle int, widths []float64) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
