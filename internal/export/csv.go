package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"solar_sizer/internal/model"
	"solar_sizer/internal/textsan"
)

// BOMHeader is the header row of every BOM export.
var BOMHeader = []string{"Item", "Qty (Full)", "Qty (Critical)", "Notes"}

// WriteBOMCSV writes the bill of materials as CSV with ASCII-only cells.
func WriteBOMCSV(w io.Writer, bom model.BillOfMaterials) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(BOMHeader); err != nil {
		return fmt.Errorf("writing BOM header: %w", err)
	}
	for i, line := range bom {
		if err := cw.Write(textsan.SanitizeAll(bomRow(line))); err != nil {
			return fmt.Errorf("writing BOM row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLoadsCSV writes the load list in the column layout the CSV importer reads.
func WriteLoadsCSV(w io.Writer, loads []model.LoadItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.LoadColumns); err != nil {
		return fmt.Errorf("writing loads header: %w", err)
	}
	for i, l := range loads {
		row := []string{
			textsan.Sanitize(l.Name),
			formatFloat(l.PowerW),
			strconv.Itoa(l.Qty),
			formatFloat(l.HoursPerDay),
			formatFloat(l.SurgeW),
			strconv.FormatBool(l.Critical),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing load row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func bomRow(line model.BOMLine) []string {
	return []string{line.Item, line.QtyFull, line.QtyCritical, line.Notes}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
