package report

import (
	"bytes"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_sizer/internal/chart"
	"solar_sizer/internal/model"
	"solar_sizer/internal/sizing"
)

func testData(t *testing.T) Data {
	t.Helper()
	loads := []model.LoadItem{
		{Name: "Fridge", PowerW: 150, Qty: 1, HoursPerDay: 8, SurgeW: 600, Critical: true},
		{Name: "Réchaud ★", PowerW: 1200, Qty: 1, HoursPerDay: 0.5},
	}
	cfg := model.DefaultSystemConfig()
	res, err := sizing.Compute(loads, cfg)
	require.NoError(t, err)

	return Data{
		Footer:  "Off-grid sizing",
		Summary: sizing.SummaryLines(res, cfg),
		Loads:   loads,
		BOM:     sizing.BuildBOM(res, cfg),
	}
}

func TestGenerate(t *testing.T) {
	pdf, err := Generate(testData(t))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Contains(t, string(pdf), "%%EOF")
}

func TestGenerate_WithChart(t *testing.T) {
	d := testData(t)
	img, ok, err := chart.Render(d.Loads)
	require.NoError(t, err)
	require.True(t, ok)
	d.Chart = img

	withChart, err := Generate(d)
	require.NoError(t, err)

	d.Chart = nil
	withoutChart, err := Generate(d)
	require.NoError(t, err)

	assert.Greater(t, len(withChart), len(withoutChart))
}

func TestGenerate_ManyLoadsPaginates(t *testing.T) {
	d := testData(t)
	for i := 0; i < 80; i++ {
		d.Loads = append(d.Loads, model.LoadItem{Name: "Socket", PowerW: 5, Qty: 1, HoursPerDay: 1})
	}

	pdf, err := Generate(d)
	require.NoError(t, err)

	m := regexp.MustCompile(`/Count (\d+)`).FindSubmatch(pdf)
	require.NotNil(t, m)
	pages, err := strconv.Atoi(string(m[1]))
	require.NoError(t, err)
	assert.Greater(t, pages, 1)
}

func TestGenerate_Empty(t *testing.T) {
	pdf, err := Generate(Data{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}
