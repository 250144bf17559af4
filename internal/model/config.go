package model

// Chemistry identifies a battery chemistry.
type Chemistry string

const (
	ChemistryLiFePO4    Chemistry = "lifepo4"
	ChemistryLithiumIon Chemistry = "lithium_ion"
	ChemistryLeadAcid   Chemistry = "lead_acid"
	ChemistryTubular    Chemistry = "tubular"
)

// ChemistryInfo holds display name and default usable depth of discharge.
type ChemistryInfo struct {
	Name       string
	DefaultDoD float64
}

// ChemistryCatalog maps every known Chemistry to its display name and default DoD.
var ChemistryCatalog = map[Chemistry]ChemistryInfo{
	ChemistryLiFePO4:    {Name: "LiFePO4", DefaultDoD: 0.8},
	ChemistryLithiumIon: {Name: "Lithium-ion", DefaultDoD: 0.8},
	ChemistryLeadAcid:   {Name: "Lead-acid (flooded/AGM)", DefaultDoD: 0.5},
	ChemistryTubular:    {Name: "Tubular", DefaultDoD: 0.5},
}

// fallbackDoD applies to chemistries missing from the catalog.
const fallbackDoD = 0.5

// DefaultDoD returns the usable depth of discharge suggested for a chemistry.
func DefaultDoD(c Chemistry) float64 {
	if info, ok := ChemistryCatalog[c]; ok {
		return info.DefaultDoD
	}
	return fallbackDoD
}

// DisplayName returns the catalog name, or the raw value when unknown.
func (c Chemistry) DisplayName() string {
	if info, ok := ChemistryCatalog[c]; ok {
		return info.Name
	}
	return string(c)
}

// Catalog options offered to the user.
var (
	SystemVoltages         = []float64{12, 24, 48}
	BatteryModuleOptionsAh = []float64{50, 100, 150, 200, 250, 300}
	PanelOptionsW          = []float64{100, 150, 200, 250, 300, 360, 400, 450, 500, 540, 600}
)

// SystemConfig holds the user-chosen sizing parameters. It is read-only
// input to every computation.
type SystemConfig struct {
	SystemVoltageV      float64   `json:"system_voltage_v" mapstructure:"system_voltage_v"`
	PeakSunHours        float64   `json:"peak_sun_hours" mapstructure:"peak_sun_hours"`
	AutonomyDays        int       `json:"autonomy_days" mapstructure:"autonomy_days"`
	UsableDoD           float64   `json:"usable_dod" mapstructure:"usable_dod"`
	EtaInverter         float64   `json:"eta_inverter" mapstructure:"eta_inverter"`
	EtaBatteryRoundtrip float64   `json:"eta_battery_roundtrip" mapstructure:"eta_battery_roundtrip"`
	EtaPVDerate         float64   `json:"eta_pv_derate" mapstructure:"eta_pv_derate"`
	SafetyMargin        float64   `json:"safety_margin" mapstructure:"safety_margin"`
	PreferredBatteryAh  float64   `json:"preferred_battery_ah" mapstructure:"preferred_battery_ah"`
	PreferredPanelW     float64   `json:"preferred_panel_w" mapstructure:"preferred_panel_w"`
	Chemistry           Chemistry `json:"battery_chemistry,omitempty" mapstructure:"battery_chemistry"`
}

// DefaultSystemConfig returns the configuration a new session starts with.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		SystemVoltageV:      24,
		PeakSunHours:        5.0,
		AutonomyDays:        1,
		UsableDoD:           DefaultDoD(ChemistryLiFePO4),
		EtaInverter:         0.90,
		EtaBatteryRoundtrip: 0.90,
		EtaPVDerate:         0.80,
		SafetyMargin:        1.15,
		PreferredBatteryAh:  100,
		PreferredPanelW:     360,
		Chemistry:           ChemistryLiFePO4,
	}
}
