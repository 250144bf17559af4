package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"solar_sizer/internal/config"
	"solar_sizer/internal/ingest"
	"solar_sizer/internal/logging"
	"solar_sizer/internal/model"
	"solar_sizer/internal/sizing"
)

type batteryRow struct {
	moduleAh       float64
	full, critical int
	installedWh    float64
	surplusPct     float64
}

type panelRow struct {
	panelW         float64
	full, critical int
	installedW     float64
	controllerA    int
}

func main() {
	loadsPath := flag.String("loads", "", "CSV or XLSX load list (required)")
	batteriesFlag := flag.String("batteries", joinSizes(model.BatteryModuleOptionsAh), "comma-separated battery module sizes in Ah")
	panelsFlag := flag.String("panels", joinSizes(model.PanelOptionsW), "comma-separated panel ratings in W")
	sys := config.RegisterSystemFlags(flag.CommandLine, model.DefaultSystemConfig())
	flag.Parse()

	logger, err := logging.New("info", "console", "module-compare")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *loadsPath == "" {
		logger.Fatal("missing -loads")
	}
	cfg, err := sys.Config()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	batteries, err := parseSizes(*batteriesFlag)
	if err != nil {
		logger.Fatal("invalid battery sizes", zap.String("batteries", *batteriesFlag), zap.Error(err))
	}
	panels, err := parseSizes(*panelsFlag)
	if err != nil {
		logger.Fatal("invalid panel sizes", zap.String("panels", *panelsFlag), zap.Error(err))
	}

	f, err := os.Open(*loadsPath)
	if err != nil {
		logger.Fatal("opening load list", zap.Error(err))
	}
	loads, err := ingest.Parse(*loadsPath, f)
	f.Close()
	if err != nil {
		logger.Fatal("reading load list", zap.Error(err))
	}

	res, err := sizing.Compute(loads, cfg)
	if err != nil {
		logger.Fatal("sizing failed", zap.Error(err))
	}

	printHeader(os.Stdout, res, cfg, len(loads))
	printBatteries(os.Stdout, compareBatteries(res, cfg, batteries))
	printPanels(os.Stdout, comparePanels(res, cfg, panels))
}

// compareBatteries sizes the bank with each module capacity.
func compareBatteries(res model.SizingResult, cfg model.SystemConfig, sizes []float64) []batteryRow {
	rows := make([]batteryRow, 0, len(sizes))
	for _, ah := range sizes {
		full := sizing.BatteryModuleCount(res.Full.BatteryWh, ah, cfg.SystemVoltageV, cfg.UsableDoD)
		row := batteryRow{
			moduleAh:    ah,
			full:        full,
			critical:    sizing.BatteryModuleCount(res.Critical.BatteryWh, ah, cfg.SystemVoltageV, cfg.UsableDoD),
			installedWh: float64(full) * ah * cfg.SystemVoltageV * cfg.UsableDoD,
		}
		if res.Full.BatteryWh > 0 {
			row.surplusPct = (row.installedWh/res.Full.BatteryWh - 1) * 100
		}
		rows = append(rows, row)
	}
	return rows
}

// comparePanels sizes the array with each panel rating.
func comparePanels(res model.SizingResult, cfg model.SystemConfig, sizes []float64) []panelRow {
	rows := make([]panelRow, 0, len(sizes))
	for _, w := range sizes {
		full := sizing.PanelCount(res.Full.PVWatts, w)
		installed := float64(full) * w
		rows = append(rows, panelRow{
			panelW:      w,
			full:        full,
			critical:    sizing.PanelCount(res.Critical.PVWatts, w),
			installedW:  installed,
			controllerA: sizing.ControllerCurrent(installed, cfg.SystemVoltageV),
		})
	}
	return rows
}

func printHeader(w io.Writer, res model.SizingResult, cfg model.SystemConfig, loads int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Module Size Comparison")
	fmt.Fprintf(w, "  Loads: %d, daily energy %.0f Wh (critical %.0f Wh)\n", loads, res.Full.EnergyWh, res.Critical.EnergyWh)
	fmt.Fprintf(w, "  System: %g V, %.1f PSH, %d day(s) autonomy, DoD %.0f%%\n",
		cfg.SystemVoltageV, cfg.PeakSunHours, cfg.AutonomyDays, cfg.UsableDoD*100)
	fmt.Fprintf(w, "  Required: PV %.0f W, battery %.0f Wh (%.1f Ah)\n", res.Full.PVWatts, res.Full.BatteryWh, res.Full.BatteryAh)
	fmt.Fprintln(w)
}

func printBatteries(w io.Writer, rows []batteryRow) {
	fmt.Fprintf(w, " %8s │ %7s │ %8s │ %12s │ %8s\n", "Module", "Modules", "Critical", "Usable", "Surplus")
	fmt.Fprintf(w, "──────────┼─────────┼──────────┼──────────────┼──────────\n")
	for _, r := range rows {
		fmt.Fprintf(w, " %5.0f Ah │ %7d │ %8d │ %9.0f Wh │ %7.1f%%\n",
			r.moduleAh, r.full, r.critical, r.installedWh, r.surplusPct)
	}
	fmt.Fprintln(w)
}

func printPanels(w io.Writer, rows []panelRow) {
	fmt.Fprintf(w, " %7s │ %6s │ %8s │ %10s │ %10s\n", "Panel", "Panels", "Critical", "Array", "Controller")
	fmt.Fprintf(w, "─────────┼────────┼──────────┼────────────┼────────────\n")
	for _, r := range rows {
		fmt.Fprintf(w, " %5.0f W │ %6d │ %8d │ %8.0f W │ %8d A\n",
			r.panelW, r.full, r.critical, r.installedW, r.controllerA)
	}
	fmt.Fprintln(w)
}

func parseSizes(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	sizes := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("size must be positive, got %v", v)
		}
		sizes = append(sizes, v)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes specified")
	}
	sort.Float64s(sizes)
	return sizes, nil
}

func joinSizes(sizes []float64) string {
	parts := make([]string, len(sizes))
	for i, v := range sizes {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
