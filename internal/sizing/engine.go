package sizing

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"solar_sizer/internal/model"
)

// ErrInvalidConfiguration is returned when a configuration value would make
// a sizing formula divide by zero or leave its documented range.
var ErrInvalidConfiguration = errors.New("invalid configuration")

const (
	// inverterHeadroom is applied over the steady draw of all loads.
	inverterHeadroom = 1.25
	// controllerEfficiency is the assumed MPPT conversion efficiency.
	controllerEfficiency = 0.9
)

// InverterSizing holds the instantaneous load figures and the inverter ratings
// derived from them.
type InverterSizing struct {
	ContinuousLoadW float64
	MaxNetSurgeW    float64
	ContinuousW     int
	SurgeW          int
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// ValidateConfig checks every field the formulas depend on.
func ValidateConfig(cfg model.SystemConfig) error {
	if !slices.Contains(model.SystemVoltages, cfg.SystemVoltageV) {
		return invalidf("system voltage %g V is not one of 12, 24, 48", cfg.SystemVoltageV)
	}
	if cfg.AutonomyDays < 0 || cfg.AutonomyDays > 7 {
		return invalidf("autonomy %d days outside [0, 7]", cfg.AutonomyDays)
	}

	ranges := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"peak sun hours", cfg.PeakSunHours, 2.0, 8.0},
		{"usable depth of discharge", cfg.UsableDoD, 0.2, 1.0},
		{"inverter efficiency", cfg.EtaInverter, 0.7, 0.99},
		{"battery round-trip efficiency", cfg.EtaBatteryRoundtrip, 0.6, 0.99},
		{"PV derate factor", cfg.EtaPVDerate, 0.6, 0.95},
		{"safety margin", cfg.SafetyMargin, 1.0, math.MaxFloat64},
	}
	for _, r := range ranges {
		// Written negated so NaN is rejected too.
		if !(r.value >= r.min && r.value <= r.max) {
			if r.max == math.MaxFloat64 {
				return invalidf("%s %g must be at least %g", r.name, r.value, r.min)
			}
			return invalidf("%s %g outside [%g, %g]", r.name, r.value, r.min, r.max)
		}
	}

	if !(cfg.PreferredBatteryAh > 0) || math.IsInf(cfg.PreferredBatteryAh, 0) {
		return invalidf("preferred battery module %g Ah must be positive", cfg.PreferredBatteryAh)
	}
	if !(cfg.PreferredPanelW > 0) || math.IsInf(cfg.PreferredPanelW, 0) {
		return invalidf("preferred panel %g W must be positive", cfg.PreferredPanelW)
	}
	return nil
}

// AggregateEnergy returns the daily energy of all loads and of critical loads only.
func AggregateEnergy(loads []model.LoadItem) (total, critical float64) {
	for _, l := range loads {
		e := l.EnergyWh()
		total += e
		if l.Critical {
			critical += e
		}
	}
	return total, critical
}

// RecommendedSystem returns the energy the panels must deliver and the PV
// array wattage needed for a daily energy target.
func RecommendedSystem(energyWh, peakSunHours, etaInv, etaBatt, etaMisc, safety float64) (fromPanelsWh, pvWatts float64, err error) {
	if !(etaInv > 0) || !(etaBatt > 0) {
		return 0, 0, invalidf("efficiencies must be positive (inverter %g, battery %g)", etaInv, etaBatt)
	}
	if !(peakSunHours > 0) || !(etaMisc > 0) {
		return 0, 0, invalidf("peak sun hours %g and PV derate %g must be positive", peakSunHours, etaMisc)
	}
	fromPanelsWh = energyWh / (etaInv * etaBatt)
	pvWatts = fromPanelsWh / (peakSunHours * etaMisc) * safety
	return fromPanelsWh, pvWatts, nil
}

// BatteryRequirement returns the nominal bank energy and charge for the
// requested days of autonomy. Zero autonomy means no storage.
func BatteryRequirement(energyWh float64, autonomyDays int, etaBatt, systemVoltage float64) (wh, ah float64, err error) {
	if !(etaBatt > 0) {
		return 0, 0, invalidf("battery efficiency %g must be positive", etaBatt)
	}
	if !(systemVoltage > 0) {
		return 0, 0, invalidf("system voltage %g must be positive", systemVoltage)
	}
	wh = energyWh * float64(autonomyDays) / etaBatt
	ah = wh / systemVoltage
	return wh, ah, nil
}

// PanelCount rounds the array up to whole panels. A non-positive panel
// rating yields 0. The count is the ceiling of the float64 quotient, so
// Panels × rating may fall short of pvWatts by a few ulps when the quotient
// rounds to a whole number.
func PanelCount(pvWatts, panelW float64) int {
	if !(panelW > 0) {
		return 0
	}
	return ceilInt(pvWatts / panelW)
}

// BatteryModuleCount rounds the bank up to whole modules of the usable
// module energy (Ah × V × DoD). A non-positive usable energy yields 0.
// Like PanelCount, the product of count and module energy can land a few
// ulps below batteryWh; no extra module is added for that.
func BatteryModuleCount(batteryWh, moduleAh, systemVoltage, usableDoD float64) int {
	usableModuleWh := moduleAh * systemVoltage * usableDoD
	if !(usableModuleWh > 0) {
		return 0
	}
	return ceilInt(batteryWh / usableModuleWh)
}

// InverterRatings sizes the inverter for the steady draw of all loads plus
// the single largest surge above a load's own draw.
func InverterRatings(loads []model.LoadItem) InverterSizing {
	var s InverterSizing
	for _, l := range loads {
		s.ContinuousLoadW += l.ContinuousW()
		s.MaxNetSurgeW = math.Max(s.MaxNetSurgeW, l.NetSurgeW())
	}
	s.ContinuousW = ceilInt(s.ContinuousLoadW * inverterHeadroom)
	s.SurgeW = ceilInt(s.ContinuousLoadW + s.MaxNetSurgeW)
	return s
}

// ControllerCurrent returns the charge controller rating for the full-load
// array. A non-positive voltage yields 0.
func ControllerCurrent(pvWattsFull, systemVoltage float64) int {
	if !(systemVoltage > 0) {
		return 0
	}
	return ceilInt(pvWattsFull / systemVoltage / controllerEfficiency)
}

// Compute sizes the system for a load list. The configuration is validated
// first; the loads are neither retained nor modified.
func Compute(loads []model.LoadItem, cfg model.SystemConfig) (model.SizingResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return model.SizingResult{}, err
	}

	clean := make([]model.LoadItem, len(loads))
	for i, l := range loads {
		clean[i] = ClampLoad(l)
	}

	total, critical := AggregateEnergy(clean)
	full, err := sizeBranch(total, cfg)
	if err != nil {
		return model.SizingResult{}, fmt.Errorf("sizing full load: %w", err)
	}
	crit, err := sizeBranch(critical, cfg)
	if err != nil {
		return model.SizingResult{}, fmt.Errorf("sizing critical load: %w", err)
	}

	inv := InverterRatings(clean)
	return model.SizingResult{
		Full:                full,
		Critical:            crit,
		ContinuousLoadW:     inv.ContinuousLoadW,
		MaxNetSurgeW:        inv.MaxNetSurgeW,
		InverterContinuousW: inv.ContinuousW,
		InverterSurgeW:      inv.SurgeW,
		ControllerCurrentA:  ControllerCurrent(full.PVWatts, cfg.SystemVoltageV),
	}, nil
}

func sizeBranch(energyWh float64, cfg model.SystemConfig) (model.BranchSizing, error) {
	fromPanels, pvWatts, err := RecommendedSystem(energyWh, cfg.PeakSunHours,
		cfg.EtaInverter, cfg.EtaBatteryRoundtrip, cfg.EtaPVDerate, cfg.SafetyMargin)
	if err != nil {
		return model.BranchSizing{}, err
	}
	batWh, batAh, err := BatteryRequirement(energyWh, cfg.AutonomyDays, cfg.EtaBatteryRoundtrip, cfg.SystemVoltageV)
	if err != nil {
		return model.BranchSizing{}, err
	}
	return model.BranchSizing{
		EnergyWh:           energyWh,
		EnergyFromPanelsWh: fromPanels,
		PVWatts:            pvWatts,
		BatteryWh:          batWh,
		BatteryAh:          batAh,
		Panels:             PanelCount(pvWatts, cfg.PreferredPanelW),
		BatteryModules:     BatteryModuleCount(batWh, cfg.PreferredBatteryAh, cfg.SystemVoltageV, cfg.UsableDoD),
	}, nil
}

func ceilInt(x float64) int {
	if !(x > 0) {
		return 0
	}
	return int(math.Ceil(x))
}
