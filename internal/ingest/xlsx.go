package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"solar_sizer/internal/model"
	"solar_sizer/internal/sizing"
)

// XLSXParser parses load lists from the first sheet of a workbook, using
// the same header rules as CSVParser.
type XLSXParser struct {
	// Sheet overrides the sheet to read. Empty means the first sheet.
	Sheet string
}

func (p *XLSXParser) Parse(r io.Reader) ([]model.LoadItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	idx, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var raw []model.RawLoad
	for _, record := range rows[1:] {
		if blank(record) {
			continue
		}
		raw = append(raw, rawFromRecord(record, idx))
	}
	return sizing.NormalizeLoads(raw), nil
}
