package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_sizer/internal/model"
)

func TestSummaryLines(t *testing.T) {
	cfg := scenarioConfig
	cfg.Chemistry = model.ChemistryLeadAcid

	res, err := Compute([]model.LoadItem{ledBulb}, cfg)
	require.NoError(t, err)

	lines := SummaryLines(res, cfg)
	assert.Contains(t, lines, "System Voltage: 24 V")
	assert.Contains(t, lines, "Battery Chemistry: Lead-acid (flooded/AGM)")
	assert.Contains(t, lines, "Total Energy Needed: 40 Wh/day")
	assert.Contains(t, lines, "Full load PV: 14 W → 1 × 360 W modules")
	assert.Contains(t, lines, "Inverter continuous: 13 W, Surge: 10 W")
	assert.Contains(t, lines, "Controller current: 1 A")
}

func TestSummaryLines_UnspecifiedChemistry(t *testing.T) {
	lines := SummaryLines(model.SizingResult{}, scenarioConfig)
	assert.Contains(t, lines, "Battery Chemistry: unspecified")
}
