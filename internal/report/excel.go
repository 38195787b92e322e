package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const ToolStatusSheet = "Tool Status"

// ToolRow is one line of the tool status export. Optional values are empty
// strings.
type ToolRow struct {
	EquipmentName          string
	BrandType              string
	SerialNo               string
	InventoryCode          string
	PeriodicInspectionDate string
	CalibrationDate        string
	CalibrationExpiryDate  string
	Status                 string
	Condition              string
	Description            string
	EquipmentLocation      string
}

var toolStatusHeaders = []interface{}{
	"No.", "Equipment Name", "Brand/Type", "Serial No.", "Inventory Code",
	"Periodic Inspection Date", "Calibration Date", "Calibration Expiry Date",
	"Status", "Condition", "Description", "Equipment Location",
}

var toolStatusWidths = []float64{5, 25, 20, 15, 15, 20, 18, 20, 15, 12, 30, 20}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

// ToolStatusWorkbook renders the tool status sheet as an xlsx file.
func (g *Generator) ToolStatusWorkbook(rows []ToolRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ToolStatusSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create body style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(toolStatusHeaders))
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(ToolStatusSheet, "A1", &toolStatusHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(ToolStatusSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range rows {
		rowNum := i + 2
		values := []interface{}{
			i + 1,
			r.EquipmentName,
			r.BrandType,
			r.SerialNo,
			r.InventoryCode,
			r.PeriodicInspectionDate,
			r.CalibrationDate,
			r.CalibrationExpiryDate,
			r.Status,
			r.Condition,
			r.Description,
			r.EquipmentLocation,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ToolStatusSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}
		if err := f.SetCellStyle(ToolStatusSheet, cell, fmt.Sprintf("%s%d", lastCol, rowNum), bodyStyle); err != nil {
			return nil, fmt.Errorf("failed to style row %d: %w", rowNum, err)
		}
	}

	for i, width := range toolStatusWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(ToolStatusSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
