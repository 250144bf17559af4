package ingest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"solar_sizer/internal/model"
)

// ErrInvalidFile marks load files that cannot be imported.
var ErrInvalidFile = errors.New("invalid load file")

// Parser reads a load list from a source and returns normalized loads.
type Parser interface {
	Parse(r io.Reader) ([]model.LoadItem, error)
}

// ParserFor picks a parser from the file extension.
func ParserFor(filename string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return &CSVParser{}, nil
	case ".xlsx":
		return &XLSXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported file %q, expected .csv or .xlsx", ErrInvalidFile, filename)
	}
}

// Parse reads a load file, picking the parser from the file name. Format
// errors are reported as ErrInvalidFile.
func Parse(filename string, r io.Reader) ([]model.LoadItem, error) {
	p, err := ParserFor(filename)
	if err != nil {
		return nil, err
	}
	loads, err := p.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFile, filename, err)
	}
	return loads, nil
}

// columnIndex maps load column names to their position in a header row.
// Unknown columns are ignored; the name column is required.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		key := strings.TrimPrefix(col, "\ufeff") // byte order mark left by spreadsheet exports
		key = strings.ToLower(strings.TrimSpace(key))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	if _, ok := idx[model.ColumnName]; !ok {
		return nil, fmt.Errorf("expected a %q column, got %v", model.ColumnName, header)
	}
	return idx, nil
}

// rawFromRecord builds a raw load from a record using the header index.
// Missing cells stay missing and normalize to their defaults.
func rawFromRecord(record []string, idx map[string]int) model.RawLoad {
	raw := make(model.RawLoad, len(model.LoadColumns))
	for _, col := range model.LoadColumns {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			continue
		}
		raw[col] = record[i]
	}
	return raw
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
