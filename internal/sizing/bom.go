package sizing

import (
	"fmt"
	"strconv"

	"solar_sizer/internal/model"
)

// QtyAsRequired is the quantity shown for ancillary hardware.
const QtyAsRequired = "As required"

// BuildBOM assembles the fixed five-row bill of materials.
func BuildBOM(res model.SizingResult, cfg model.SystemConfig) model.BillOfMaterials {
	return model.BillOfMaterials{
		{
			Item:        fmt.Sprintf("PV panels (%s W)", formatNumber(cfg.PreferredPanelW)),
			QtyFull:     strconv.Itoa(res.Full.Panels),
			QtyCritical: strconv.Itoa(res.Critical.Panels),
			Notes: fmt.Sprintf("Array ≥ %.0f W (critical %.0f W), check Voc and string arrangement",
				res.Full.PVWatts, res.Critical.PVWatts),
		},
		{
			Item: fmt.Sprintf("Battery modules (%s Ah @ %s V)",
				formatNumber(cfg.PreferredBatteryAh), formatNumber(cfg.SystemVoltageV)),
			QtyFull:     strconv.Itoa(res.Full.BatteryModules),
			QtyCritical: strconv.Itoa(res.Critical.BatteryModules),
			Notes: fmt.Sprintf("Bank ≥ %.1f Ah nominal (critical %.1f Ah), series/parallel per system voltage, include BMS for lithium",
				res.Full.BatteryAh, res.Critical.BatteryAh),
		},
		{
			Item:        "MPPT charge controller",
			QtyFull:     "1",
			QtyCritical: "1",
			Notes:       fmt.Sprintf("Must support ≥ %dA, check voltage window", res.ControllerCurrentA),
		},
		{
			Item:        "Inverter (pure sine)",
			QtyFull:     "1",
			QtyCritical: "1",
			Notes:       fmt.Sprintf("Continuous ≥ %dW, surge ≥ %dW", res.InverterContinuousW, res.InverterSurgeW),
		},
		{
			Item:        "Cables, breakers, mounting, fuses",
			QtyFull:     QtyAsRequired,
			QtyCritical: QtyAsRequired,
			Notes:       "Use correctly sized cables, DC breakers, fuses per local code",
		},
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
