package chart

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_sizer/internal/model"
)

func TestTopConsumers(t *testing.T) {
	loads := []model.LoadItem{
		{Name: "Idle", PowerW: 0, Qty: 1, HoursPerDay: 10},
		{Name: "Fan", PowerW: 40, Qty: 1, HoursPerDay: 5},      // 200
		{Name: "Fridge", PowerW: 150, Qty: 1, HoursPerDay: 8},  // 1200
		{Name: "TV", PowerW: 100, Qty: 1, HoursPerDay: 2},      // 200
		{Name: "Kettle", PowerW: 2000, Qty: 1, HoursPerDay: 1}, // 2000
		{Name: "Router", PowerW: 10, Qty: 1, HoursPerDay: 24},  // 240
		{Name: "Phone", PowerW: 5, Qty: 2, HoursPerDay: 2},     // 20
	}

	top := TopConsumers(loads, TopN)
	require.Len(t, top, 5)

	names := make([]string, len(top))
	for i, c := range top {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Kettle", "Fridge", "Router", "Fan", "TV"}, names)
	assert.InDelta(t, 2000, top[0].EnergyWh, 0.001)
}

func TestTopConsumers_NoEnergy(t *testing.T) {
	assert.Empty(t, TopConsumers(nil, TopN))
	assert.Empty(t, TopConsumers([]model.LoadItem{{Name: "Off", PowerW: 100, Qty: 1}}, TopN))
}

func TestRender_NoData(t *testing.T) {
	img, ok, err := Render([]model.LoadItem{{Name: "Standby", PowerW: 5, Qty: 1}})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, img)
}

func TestRender_JPEG(t *testing.T) {
	img, ok, err := Render([]model.LoadItem{
		{Name: "Fridge", PowerW: 150, Qty: 1, HoursPerDay: 8},
		{Name: "Fan", PowerW: 40, Qty: 2, HoursPerDay: 5},
	})
	require.NoError(t, err)
	require.True(t, ok)

	decoded, err := jpeg.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Greater(t, decoded.Bounds().Dx(), 0)
}
