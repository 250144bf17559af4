package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"solar_sizer/internal/model"
	"solar_sizer/internal/sizing"
)

// CSVParser parses load lists exported as CSV.
//
// Expected format (columns in any order, only name required):
//
//	name,power_w,qty,hours_per_day,surge_w,critical
//	LED Bulb,10,4,5,0,yes
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader) ([]model.LoadItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var raw []model.RawLoad
	lineNum := 1 // header was line 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}
		if blank(record) {
			continue
		}
		raw = append(raw, rawFromRecord(record, idx))
	}

	return sizing.NormalizeLoads(raw), nil
}
