package sizing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"solar_sizer/internal/model"
)

// maxQty bounds the unit count so float-to-int conversion stays defined.
const maxQty = math.MaxInt32

// NormalizeLoads converts raw rows into valid load items, preserving order.
// Malformed values never fail: they fall back to 0, false or a placeholder name.
func NormalizeLoads(raw []model.RawLoad) []model.LoadItem {
	loads := make([]model.LoadItem, 0, len(raw))
	for _, r := range raw {
		loads = append(loads, NormalizeLoad(r))
	}
	return loads
}

// NormalizeLoad converts a single raw row into a valid load item.
func NormalizeLoad(r model.RawLoad) model.LoadItem {
	qty := math.Floor(parseNonNegative(r[model.ColumnQty]))
	if qty > maxQty {
		qty = maxQty
	}
	return model.LoadItem{
		Name:        parseName(r[model.ColumnName]),
		PowerW:      parseNonNegative(r[model.ColumnPowerW]),
		Qty:         int(qty),
		HoursPerDay: parseNonNegative(r[model.ColumnHoursPerDay]),
		SurgeW:      parseNonNegative(r[model.ColumnSurgeW]),
		Critical:    ParseCritical(r[model.ColumnCritical]),
	}
}

// ParseCritical reports whether v encodes a critical load.
// Recognized true values: bool true, numeric 1 and the strings "true", "yes"
// and "1" in any case. Everything else, including nil, is false.
func ParseCritical(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "1":
			return true
		}
		return false
	case nil:
		return false
	}
	n, ok := parseNumber(v)
	return ok && n == 1
}

// ClampLoad guards an already-typed item against negative or non-finite values.
func ClampLoad(l model.LoadItem) model.LoadItem {
	if strings.TrimSpace(l.Name) == "" {
		l.Name = model.UnnamedAppliance
	}
	l.PowerW = nonNegative(l.PowerW)
	l.HoursPerDay = nonNegative(l.HoursPerDay)
	l.SurgeW = nonNegative(l.SurgeW)
	if l.Qty < 0 {
		l.Qty = 0
	}
	return l
}

func parseName(v any) string {
	var name string
	switch x := v.(type) {
	case string:
		name = x
	case fmt.Stringer:
		name = x.String()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.UnnamedAppliance
	}
	return name
}

func parseNonNegative(v any) float64 {
	n, ok := parseNumber(v)
	if !ok {
		return 0
	}
	return nonNegative(n)
}

func nonNegative(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0
	}
	return n
}

// parseNumber accepts the numeric encodings that arrive from JSON bodies,
// CSV/XLSX cells and typed Go callers.
func parseNumber(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case int32:
		n = float64(x)
	case uint:
		n = float64(x)
	case uint64:
		n = float64(x)
	case uint32:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
