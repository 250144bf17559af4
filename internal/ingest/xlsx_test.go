package ingest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"solar_sizer/internal/export"
	"solar_sizer/internal/model"
)

func workbookWithRows(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXParser_Parse(t *testing.T) {
	data := workbookWithRows(t, [][]any{
		{"name", "power_w", "qty", "hours_per_day", "surge_w", "critical"},
		{"Water pump", 750, 1, 1.5, 2200, "yes"},
		{"Laptop", 65, 2, 6, 0, "no"},
	})

	loads, err := (&XLSXParser{}).Parse(bytes.NewReader(data))

	require.NoError(t, err)
	require.Len(t, loads, 2)
	assert.Equal(t, model.LoadItem{Name: "Water pump", PowerW: 750, Qty: 1, HoursPerDay: 1.5, SurgeW: 2200, Critical: true}, loads[0])
	assert.Equal(t, 2, loads[1].Qty)
	assert.False(t, loads[1].Critical)
}

func TestXLSXParser_NotAWorkbook(t *testing.T) {
	_, err := (&XLSXParser{}).Parse(bytes.NewReader([]byte("name,power_w\n")))
	assert.Error(t, err)
}

func TestXLSXParser_EmptySheet(t *testing.T) {
	data := workbookWithRows(t, nil)
	_, err := (&XLSXParser{}).Parse(bytes.NewReader(data))
	assert.Error(t, err)
}

func TestCSVRoundTripThroughExport(t *testing.T) {
	loads := []model.LoadItem{
		{Name: "Fridge", PowerW: 150, Qty: 1, HoursPerDay: 8, SurgeW: 600, Critical: true},
		{Name: "Fan", PowerW: 40, Qty: 2, HoursPerDay: 6},
	}
	var buf bytes.Buffer
	require.NoError(t, export.WriteLoadsCSV(&buf, loads))

	parsed, err := (&CSVParser{}).Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, loads, parsed)
}
