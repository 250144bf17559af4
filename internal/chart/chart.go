// Package chart renders the top energy consumers of a load list as a JPEG
// horizontal bar chart.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"solar_sizer/internal/model"
)

// TopN is the number of loads shown on the chart.
const TopN = 5

var barColor = color.RGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF}

// Consumer is one bar of the chart.
type Consumer struct {
	Name     string
	EnergyWh float64
}

// TopConsumers returns up to n loads with positive daily energy, largest
// first. Loads with equal energy keep their list order.
func TopConsumers(loads []model.LoadItem, n int) []Consumer {
	var out []Consumer
	for _, l := range loads {
		if e := l.EnergyWh(); e > 0 {
			out = append(out, Consumer{Name: l.Name, EnergyWh: e})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EnergyWh > out[j].EnergyWh
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Render draws the chart. ok is false when no load consumes energy; callers
// omit the chart in that case.
func Render(loads []model.LoadItem) (img []byte, ok bool, err error) {
	top := TopConsumers(loads, TopN)
	if len(top) == 0 {
		return nil, false, nil
	}

	// Bars are drawn bottom-up, so reverse to put the largest on top.
	values := make(plotter.Values, len(top))
	names := make([]string, len(top))
	for i, c := range top {
		j := len(top) - 1 - i
		values[j] = c.EnergyWh
		names[j] = c.Name
	}

	p := plot.New()
	p.Title.Text = "Top 5 Energy Consuming Appliances"
	p.X.Label.Text = "Daily Energy Consumption (Wh)"
	p.X.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, false, fmt.Errorf("building bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(names...)

	wt, err := p.WriterTo(8*vg.Inch, 5*vg.Inch, "jpg")
	if err != nil {
		return nil, false, fmt.Errorf("creating chart canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, false, fmt.Errorf("encoding chart: %w", err)
	}
	return buf.Bytes(), true, nil
}
