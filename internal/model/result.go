package model

import "time"

// BranchSizing holds the PV and storage requirements for one energy target
// (the full load list or its critical subset).
type BranchSizing struct {
	EnergyWh           float64 `json:"energy_wh"`
	EnergyFromPanelsWh float64 `json:"energy_from_panels_wh"`
	PVWatts            float64 `json:"pv_watts"`
	BatteryWh          float64 `json:"battery_wh"`
	BatteryAh          float64 `json:"battery_ah"`
	Panels             int     `json:"panels"`
	BatteryModules     int     `json:"battery_modules"`
}

// SizingResult is the output of one computation. It is never mutated.
type SizingResult struct {
	Full     BranchSizing `json:"full"`
	Critical BranchSizing `json:"critical"`

	ContinuousLoadW     float64 `json:"continuous_load_w"`
	MaxNetSurgeW        float64 `json:"max_net_surge_w"`
	InverterContinuousW int     `json:"inverter_continuous_w"`
	InverterSurgeW      int     `json:"inverter_surge_w"`
	ControllerCurrentA  int     `json:"controller_current_a"`
}

// BOMLine is one bill-of-materials row. Quantities are display strings
// because some rows carry non-numeric quantities.
type BOMLine struct {
	Item        string `json:"item"`
	QtyFull     string `json:"qty_full"`
	QtyCritical string `json:"qty_critical"`
	Notes       string `json:"notes"`
}

// BillOfMaterials is the ordered list of equipment rows.
type BillOfMaterials []BOMLine

// Session is the caller-owned load list together with its configuration.
type Session struct {
	ID        string       `json:"id"`
	Loads     []LoadItem   `json:"loads"`
	Config    SystemConfig `json:"config"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Clone returns a copy that shares no slices with s.
func (s Session) Clone() Session {
	c := s
	if s.Loads != nil {
		c.Loads = make([]LoadItem, len(s.Loads))
		copy(c.Loads, s.Loads)
	}
	return c
}
