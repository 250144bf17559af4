package sizing

import (
	"fmt"

	"solar_sizer/internal/model"
)

// SummaryLines renders the sizing result as the text lines shown in reports.
func SummaryLines(res model.SizingResult, cfg model.SystemConfig) []string {
	chemistry := cfg.Chemistry.DisplayName()
	if chemistry == "" {
		chemistry = "unspecified"
	}
	panelW := formatNumber(cfg.PreferredPanelW)
	batteryAh := formatNumber(cfg.PreferredBatteryAh)

	return []string{
		fmt.Sprintf("System Voltage: %s V", formatNumber(cfg.SystemVoltageV)),
		fmt.Sprintf("Battery Chemistry: %s", chemistry),
		fmt.Sprintf("Preferred Battery Module: %s Ah", batteryAh),
		fmt.Sprintf("Preferred PV Module: %s W", panelW),
		fmt.Sprintf("Total Energy Needed: %.0f Wh/day", res.Full.EnergyWh),
		fmt.Sprintf("Critical Load Energy: %.0f Wh/day", res.Critical.EnergyWh),
		fmt.Sprintf("Full load PV: %.0f W → %d × %s W modules", res.Full.PVWatts, res.Full.Panels, panelW),
		fmt.Sprintf("Full load battery: %.1f Ah nominal → %d × %s Ah modules", res.Full.BatteryAh, res.Full.BatteryModules, batteryAh),
		fmt.Sprintf("Critical PV: %.0f W → %d × %s W modules", res.Critical.PVWatts, res.Critical.Panels, panelW),
		fmt.Sprintf("Critical battery: %.1f Ah nominal → %d × %s Ah modules", res.Critical.BatteryAh, res.Critical.BatteryModules, batteryAh),
		fmt.Sprintf("Inverter continuous: %d W, Surge: %d W", res.InverterContinuousW, res.InverterSurgeW),
		fmt.Sprintf("Controller current: %d A", res.ControllerCurrentA),
	}
}
