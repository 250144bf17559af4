package model

import "math"

// UnnamedAppliance is substituted when a load row carries no usable name.
const UnnamedAppliance = "Unnamed Appliance"

// Load list column names, shared by the importers and exporters.
const (
	ColumnName        = "name"
	ColumnPowerW      = "power_w"
	ColumnQty         = "qty"
	ColumnHoursPerDay = "hours_per_day"
	ColumnSurgeW      = "surge_w"
	ColumnCritical    = "critical"
)

// LoadColumns lists the load list columns in their canonical order.
var LoadColumns = []string{
	ColumnName,
	ColumnPowerW,
	ColumnQty,
	ColumnHoursPerDay,
	ColumnSurgeW,
	ColumnCritical,
}

// RawLoad is one load row as captured from a form, JSON body or file,
// before normalization. Values may be strings, numbers, bools or missing.
type RawLoad map[string]any

// LoadItem is one normalized appliance entry.
type LoadItem struct {
	Name        string  `json:"name"`
	PowerW      float64 `json:"power_w"`
	Qty         int     `json:"qty"`
	HoursPerDay float64 `json:"hours_per_day"`
	SurgeW      float64 `json:"surge_w"`
	Critical    bool    `json:"critical"`
}

// ContinuousW is the steady draw of all units of this load.
func (l LoadItem) ContinuousW() float64 {
	return l.PowerW * float64(l.Qty)
}

// EnergyWh is the daily energy of this load.
func (l LoadItem) EnergyWh() float64 {
	return l.ContinuousW() * l.HoursPerDay
}

// NetSurgeW is the surge in excess of the load's own steady draw.
func (l LoadItem) NetSurgeW() float64 {
	return math.Max(0, l.SurgeW-l.ContinuousW())
}
