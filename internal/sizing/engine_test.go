package sizing

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_sizer/internal/model"
)

// scenarioConfig is the reference configuration used by the worked examples.
var scenarioConfig = model.SystemConfig{
	SystemVoltageV:      24,
	PeakSunHours:        5.0,
	AutonomyDays:        1,
	UsableDoD:           0.8,
	EtaInverter:         0.90,
	EtaBatteryRoundtrip: 0.90,
	EtaPVDerate:         0.80,
	SafetyMargin:        1.15,
	PreferredBatteryAh:  100,
	PreferredPanelW:     360,
}

var ledBulb = model.LoadItem{Name: "LED Bulb", PowerW: 10, Qty: 1, HoursPerDay: 4}

func TestCompute_EmptyLoads(t *testing.T) {
	res, err := Compute(nil, scenarioConfig)
	require.NoError(t, err)

	assert.Zero(t, res.Full.EnergyWh)
	assert.Zero(t, res.Critical.EnergyWh)
	assert.Zero(t, res.Full.Panels)
	assert.Zero(t, res.Critical.Panels)
	assert.Zero(t, res.Full.BatteryModules)
	assert.Zero(t, res.Critical.BatteryModules)
	assert.Zero(t, res.InverterContinuousW)
	assert.Zero(t, res.InverterSurgeW)
	assert.Zero(t, res.ControllerCurrentA)
}

func TestCompute_SingleNonCriticalLoad(t *testing.T) {
	res, err := Compute([]model.LoadItem{ledBulb}, scenarioConfig)
	require.NoError(t, err)

	assert.InDelta(t, 40, res.Full.EnergyWh, 1e-9)
	assert.Zero(t, res.Critical.EnergyWh)
	// (40 / 0.81) / (5 * 0.8) * 1.15
	assert.InDelta(t, 14.1975, res.Full.PVWatts, 0.001)
	assert.Equal(t, 1, res.Full.Panels)
	assert.Zero(t, res.Critical.Panels)

	// 40 * 1 / 0.9 Wh over 24 V
	assert.InDelta(t, 44.444, res.Full.BatteryWh, 0.001)
	assert.InDelta(t, 1.8519, res.Full.BatteryAh, 0.001)
	assert.Equal(t, 1, res.Full.BatteryModules)
	assert.Zero(t, res.Critical.BatteryModules)

	assert.Equal(t, 13, res.InverterContinuousW)
	assert.Equal(t, 10, res.InverterSurgeW)
	assert.Equal(t, 1, res.ControllerCurrentA)
}

func TestCompute_CriticalEqualsFull(t *testing.T) {
	load := ledBulb
	load.Critical = true

	res, err := Compute([]model.LoadItem{load}, scenarioConfig)
	require.NoError(t, err)

	assert.InDelta(t, 40, res.Critical.EnergyWh, 1e-9)
	assert.Equal(t, res.Full, res.Critical)
}

func TestCompute_InverterSurge(t *testing.T) {
	loads := []model.LoadItem{
		{Name: "Pump", PowerW: 100, Qty: 1, HoursPerDay: 2, SurgeW: 500},
		{Name: "Fan", PowerW: 50, Qty: 2, HoursPerDay: 1},
	}

	res, err := Compute(loads, scenarioConfig)
	require.NoError(t, err)

	assert.InDelta(t, 200, res.ContinuousLoadW, 1e-9)
	assert.InDelta(t, 400, res.MaxNetSurgeW, 1e-9)
	assert.Equal(t, 600, res.InverterSurgeW)
	assert.Equal(t, 250, res.InverterContinuousW)
}

func TestCompute_ZeroAutonomy(t *testing.T) {
	cfg := scenarioConfig
	cfg.AutonomyDays = 0
	load := ledBulb
	load.Critical = true
	load.PowerW = 2000

	res, err := Compute([]model.LoadItem{load}, cfg)
	require.NoError(t, err)

	assert.Zero(t, res.Full.BatteryWh)
	assert.Zero(t, res.Full.BatteryAh)
	assert.Zero(t, res.Critical.BatteryWh)
	assert.Zero(t, res.Critical.BatteryAh)
	assert.Zero(t, res.Full.BatteryModules)
	assert.Greater(t, res.Full.Panels, 0)
}

func TestCompute_DoesNotModifyLoads(t *testing.T) {
	loads := []model.LoadItem{{Name: "", PowerW: -5, Qty: -1, HoursPerDay: 3}}

	res, err := Compute(loads, scenarioConfig)
	require.NoError(t, err)

	assert.Zero(t, res.Full.EnergyWh)
	assert.Equal(t, -5.0, loads[0].PowerW)
	assert.Equal(t, "", loads[0].Name)
}

func TestCompute_Deterministic(t *testing.T) {
	loads := []model.LoadItem{ledBulb, {Name: "TV", PowerW: 80, Qty: 1, HoursPerDay: 5, SurgeW: 120, Critical: true}}

	a, err := Compute(loads, scenarioConfig)
	require.NoError(t, err)
	b, err := Compute(loads, scenarioConfig)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.SystemConfig)
		errMsg string
	}{
		{"voltage", func(c *model.SystemConfig) { c.SystemVoltageV = 36 }, "system voltage"},
		{"zero voltage", func(c *model.SystemConfig) { c.SystemVoltageV = 0 }, "system voltage"},
		{"peak sun hours", func(c *model.SystemConfig) { c.PeakSunHours = 0 }, "peak sun hours"},
		{"autonomy", func(c *model.SystemConfig) { c.AutonomyDays = 8 }, "autonomy"},
		{"dod", func(c *model.SystemConfig) { c.UsableDoD = 0.1 }, "depth of discharge"},
		{"inverter efficiency", func(c *model.SystemConfig) { c.EtaInverter = 0 }, "inverter efficiency"},
		{"battery efficiency NaN", func(c *model.SystemConfig) { c.EtaBatteryRoundtrip = math.NaN() }, "battery round-trip"},
		{"pv derate", func(c *model.SystemConfig) { c.EtaPVDerate = 1 }, "PV derate"},
		{"safety margin", func(c *model.SystemConfig) { c.SafetyMargin = 0.9 }, "safety margin"},
		{"battery module", func(c *model.SystemConfig) { c.PreferredBatteryAh = 0 }, "battery module"},
		{"panel", func(c *model.SystemConfig) { c.PreferredPanelW = -360 }, "panel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := scenarioConfig
			tt.mutate(&cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))
			assert.Contains(t, err.Error(), tt.errMsg)

			_, err = Compute([]model.LoadItem{ledBulb}, cfg)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}

	assert.NoError(t, ValidateConfig(scenarioConfig))
	assert.NoError(t, ValidateConfig(model.DefaultSystemConfig()))
}

func TestRecommendedSystem_RejectsZeroDenominators(t *testing.T) {
	_, _, err := RecommendedSystem(100, 0, 0.9, 0.9, 0.8, 1.1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, _, err = RecommendedSystem(100, 5, 0, 0.9, 0.8, 1.1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, _, err = RecommendedSystem(100, 5, 0.9, 0.9, -0.8, 1.1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	fromPanels, pv, err := RecommendedSystem(81, 5, 0.9, 0.9, 0.8, 1)
	require.NoError(t, err)
	assert.InDelta(t, 100, fromPanels, 1e-9)
	assert.InDelta(t, 25, pv, 1e-9)
}

func TestBatteryRequirement(t *testing.T) {
	wh, ah, err := BatteryRequirement(900, 2, 0.9, 12)
	require.NoError(t, err)
	assert.InDelta(t, 2000, wh, 1e-9)
	assert.InDelta(t, 166.667, ah, 0.001)

	wh, ah, err = BatteryRequirement(900, 0, 0.9, 12)
	require.NoError(t, err)
	assert.Zero(t, wh)
	assert.Zero(t, ah)

	_, _, err = BatteryRequirement(900, 1, 0.9, 0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, _, err = BatteryRequirement(900, 1, 0, 24)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestModuleCounts_GuardZeroCapacity(t *testing.T) {
	assert.Equal(t, 0, PanelCount(500, 0))
	assert.Equal(t, 0, PanelCount(500, -100))
	assert.Equal(t, 0, BatteryModuleCount(5000, 0, 24, 0.8))
	assert.Equal(t, 0, BatteryModuleCount(5000, 100, 24, 0))
	assert.Equal(t, 0, ControllerCurrent(1000, 0))
}

func TestModuleCounts_RoundUp(t *testing.T) {
	assert.Equal(t, 1, PanelCount(0.01, 360))
	assert.Equal(t, 1, PanelCount(360, 360))
	assert.Equal(t, 2, PanelCount(361, 360))
	assert.Equal(t, 0, PanelCount(0, 360))

	// 100 Ah × 24 V × 0.8 = 1920 Wh usable per module
	assert.Equal(t, 1, BatteryModuleCount(1920, 100, 24, 0.8))
	assert.Equal(t, 2, BatteryModuleCount(1921, 100, 24, 0.8))
}

func TestInverterRatings_EmptyList(t *testing.T) {
	inv := InverterRatings(nil)
	assert.Equal(t, InverterSizing{}, inv)
}

func TestInverterRatings_SurgeAlreadyCoveredByDraw(t *testing.T) {
	// surge 250 W is below the 300 W steady draw of three units
	inv := InverterRatings([]model.LoadItem{{PowerW: 100, Qty: 3, SurgeW: 250}})
	assert.Zero(t, inv.MaxNetSurgeW)
	assert.Equal(t, 300, inv.SurgeW)
	assert.Equal(t, 375, inv.ContinuousW)
}

func TestAggregateEnergy(t *testing.T) {
	total, critical := AggregateEnergy([]model.LoadItem{
		{PowerW: 10, Qty: 2, HoursPerDay: 5, Critical: true},
		{PowerW: 100, Qty: 1, HoursPerDay: 1},
	})
	assert.InDelta(t, 200, total, 1e-9)
	assert.InDelta(t, 100, critical, 1e-9)

	total, critical = AggregateEnergy(nil)
	assert.Zero(t, total)
	assert.Zero(t, critical)
}

func TestCompute_FullAtLeastCritical(t *testing.T) {
	loads := []model.LoadItem{
		{Name: "Router", PowerW: 12, Qty: 1, HoursPerDay: 24, Critical: true},
		{Name: "Kettle", PowerW: 2000, Qty: 1, HoursPerDay: 0.2},
	}

	res, err := Compute(loads, scenarioConfig)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Full.EnergyWh, res.Critical.EnergyWh)
	assert.GreaterOrEqual(t, res.Full.PVWatts, res.Critical.PVWatts)
	assert.GreaterOrEqual(t, res.Full.BatteryWh, res.Critical.BatteryWh)
	assert.GreaterOrEqual(t, res.Full.Panels, res.Critical.Panels)
}

func randomConfig(r *rand.Rand) model.SystemConfig {
	between := func(lo, hi float64) float64 { return lo + r.Float64()*(hi-lo) }
	return model.SystemConfig{
		SystemVoltageV:      model.SystemVoltages[r.IntN(len(model.SystemVoltages))],
		PeakSunHours:        between(2, 8),
		AutonomyDays:        r.IntN(8),
		UsableDoD:           between(0.2, 1.0),
		EtaInverter:         between(0.7, 0.99),
		EtaBatteryRoundtrip: between(0.6, 0.99),
		EtaPVDerate:         between(0.6, 0.95),
		SafetyMargin:        between(1.0, 1.5),
		PreferredBatteryAh:  model.BatteryModuleOptionsAh[r.IntN(len(model.BatteryModuleOptionsAh))],
		PreferredPanelW:     model.PanelOptionsW[r.IntN(len(model.PanelOptionsW))],
	}
}

func randomLoads(r *rand.Rand) []model.LoadItem {
	loads := make([]model.LoadItem, r.IntN(12))
	for i := range loads {
		loads[i] = model.LoadItem{
			Name:        "load",
			PowerW:      r.Float64() * 3000,
			Qty:         r.IntN(6),
			HoursPerDay: r.Float64() * 24,
			SurgeW:      r.Float64() * 6000,
			Critical:    r.IntN(2) == 0,
		}
	}
	return loads
}

// roundingTolerance bounds the relative float64 shortfall of count × unit
// against the requirement when the quotient rounds to a whole number.
const roundingTolerance = 1e-12

func TestCountsUseCeilingOfQuotient(t *testing.T) {
	// 64270.748131805005 / 1836.3070894801428 rounds to exactly 35.0, while
	// 35 × 1836.3070894801428 is one ulp below the bank energy.
	bankWh := 64270.748131805005
	moduleWh := 1836.3070894801428

	n := BatteryModuleCount(bankWh, moduleWh, 1, 1)
	assert.Equal(t, 35, n)
	assert.Less(t, float64(n)*moduleWh, bankWh)
	assert.InEpsilon(t, bankWh, float64(n)*moduleWh, roundingTolerance)

	assert.Equal(t, 35, PanelCount(bankWh, moduleWh))
}

func TestCompute_NeverUnderProvisions(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 2024))

	for i := 0; i < 2000; i++ {
		cfg := randomConfig(r)
		loads := randomLoads(r)

		res, err := Compute(loads, cfg)
		require.NoError(t, err)

		usableModuleWh := cfg.PreferredBatteryAh * cfg.SystemVoltageV * cfg.UsableDoD
		for _, b := range []model.BranchSizing{res.Full, res.Critical} {
			assert.GreaterOrEqual(t, b.Panels, 0)
			assert.GreaterOrEqual(t, b.BatteryModules, 0)
			assert.GreaterOrEqual(t, float64(b.Panels)*cfg.PreferredPanelW, b.PVWatts*(1-roundingTolerance))
			assert.GreaterOrEqual(t, float64(b.BatteryModules)*usableModuleWh, b.BatteryWh*(1-roundingTolerance))
		}
		assert.GreaterOrEqual(t, res.Full.PVWatts, res.Critical.PVWatts)
		assert.GreaterOrEqual(t, float64(res.InverterContinuousW), res.ContinuousLoadW*1.25*(1-roundingTolerance))
		assert.GreaterOrEqual(t, float64(res.InverterSurgeW), res.ContinuousLoadW+res.MaxNetSurgeW-1e-9)
	}
}
