package config

import (
	"flag"

	"solar_sizer/internal/model"
	"solar_sizer/internal/sizing"
)

// SystemFlags binds the system configuration to command-line flags.
type SystemFlags struct {
	cfg       model.SystemConfig
	chemistry string
	dod       float64
}

// RegisterSystemFlags adds the system flags to fs with defaults from base.
// Leaving -dod at 0 picks the chemistry's default depth of discharge.
func RegisterSystemFlags(fs *flag.FlagSet, base model.SystemConfig) *SystemFlags {
	f := &SystemFlags{cfg: base, chemistry: string(base.Chemistry)}
	fs.Float64Var(&f.cfg.SystemVoltageV, "voltage", base.SystemVoltageV, "system voltage (12, 24 or 48)")
	fs.Float64Var(&f.cfg.PeakSunHours, "psh", base.PeakSunHours, "peak sun hours per day")
	fs.IntVar(&f.cfg.AutonomyDays, "autonomy", base.AutonomyDays, "days of autonomy (0-7)")
	fs.StringVar(&f.chemistry, "chemistry", f.chemistry, "battery chemistry (lifepo4, lithium_ion, lead_acid, tubular)")
	fs.Float64Var(&f.dod, "dod", 0, "usable depth of discharge, 0 for the chemistry default")
	fs.Float64Var(&f.cfg.EtaInverter, "eta-inverter", base.EtaInverter, "inverter efficiency")
	fs.Float64Var(&f.cfg.EtaBatteryRoundtrip, "eta-battery", base.EtaBatteryRoundtrip, "battery round-trip efficiency")
	fs.Float64Var(&f.cfg.EtaPVDerate, "eta-pv", base.EtaPVDerate, "PV derate factor")
	fs.Float64Var(&f.cfg.SafetyMargin, "safety", base.SafetyMargin, "PV safety margin")
	fs.Float64Var(&f.cfg.PreferredBatteryAh, "battery-ah", base.PreferredBatteryAh, "battery module capacity in Ah")
	fs.Float64Var(&f.cfg.PreferredPanelW, "panel-w", base.PreferredPanelW, "panel rating in W")
	return f
}

// Config returns the validated configuration after flag parsing.
func (f *SystemFlags) Config() (model.SystemConfig, error) {
	cfg := f.cfg
	cfg.Chemistry = model.Chemistry(f.chemistry)
	cfg.UsableDoD = f.dod
	if cfg.UsableDoD == 0 {
		cfg.UsableDoD = model.DefaultDoD(cfg.Chemistry)
	}
	if err := sizing.ValidateConfig(cfg); err != nil {
		return model.SystemConfig{}, err
	}
	return cfg, nil
}
