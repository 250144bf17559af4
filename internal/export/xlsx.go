package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"solar_sizer/internal/model"
	"solar_sizer/internal/textsan"
)

// Sheet names used in the sizing workbook.
const (
	SheetBOM     = "Bill of Materials"
	SheetLoads   = "Loads"
	SheetSummary = "Summary"
)

var loadsHeader = []string{"Appliance", "Power (W)", "Qty", "Hours/day", "Surge (W)", "Energy (Wh)", "Critical"}

// Workbook builds an XLSX file with the BOM, the load table and the summary lines.
func Workbook(loads []model.LoadItem, bom model.BillOfMaterials, summary []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	bomRows := make([][]any, len(bom))
	for i, line := range bom {
		bomRows[i] = toCells(textsan.SanitizeAll(bomRow(line)))
	}
	if err := writeSheet(f, SheetBOM, BOMHeader, bomRows, []float64{36, 12, 14, 80}, headerStyle); err != nil {
		return nil, err
	}

	loadRows := make([][]any, len(loads))
	for i, l := range loads {
		loadRows[i] = []any{textsan.Sanitize(l.Name), l.PowerW, l.Qty, l.HoursPerDay, l.SurgeW, l.EnergyWh(), l.Critical}
	}
	if err := writeSheet(f, SheetLoads, loadsHeader, loadRows, []float64{30, 12, 8, 12, 12, 14, 10}, headerStyle); err != nil {
		return nil, err
	}

	summaryRows := make([][]any, len(summary))
	for i, line := range summary {
		summaryRows[i] = []any{textsan.Sanitize(line)}
	}
	if err := writeSheet(f, SheetSummary, []string{"System Summary"}, summaryRows, []float64{70}, headerStyle); err != nil {
		return nil, err
	}

	// The default sheet is dropped once the named sheets exist.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("deleting default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetBOM); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, widths []float64, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %q: %w", sheet, err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %q header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("converting coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %q header: %w", sheet, err)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("converting column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("setting %q column width: %w", sheet, err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("converting coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %q row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
