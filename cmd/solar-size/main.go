package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"solar_sizer/internal/chart"
	"solar_sizer/internal/config"
	"solar_sizer/internal/export"
	"solar_sizer/internal/ingest"
	"solar_sizer/internal/logging"
	"solar_sizer/internal/model"
	"solar_sizer/internal/report"
	"solar_sizer/internal/sizing"
)

// Output file names written into the output directory.
const (
	fileBOM      = "bom.csv"
	fileWorkbook = "sizing.xlsx"
	fileReport   = "report.pdf"
	fileChart    = "chart.jpg"
)

type options struct {
	loadsPath string
	outDir    string
	title     string
	footer    string
	cfg       model.SystemConfig
}

func main() {
	loadsPath := flag.String("loads", "", "CSV or XLSX load list (required)")
	outDir := flag.String("out", "out", "directory for bom.csv, sizing.xlsx, report.pdf and chart.jpg")
	title := flag.String("title", report.DefaultTitle, "report title")
	footer := flag.String("footer", "", "report footer text")
	logLevel := flag.String("log-level", "info", "log level")
	sys := config.RegisterSystemFlags(flag.CommandLine, model.DefaultSystemConfig())
	flag.Parse()

	logger, err := logging.New(*logLevel, "console", "solar-size")
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

	opts := options{loadsPath: *loadsPath, outDir: *outDir, title: *title, footer: *footer, cfg: cfg}
	if err := run(opts, os.Stdout, logger); err != nil {
		logger.Fatal("sizing failed", zap.Error(err))
	}
}

func run(opts options, stdout io.Writer, logger *zap.Logger) error {
	f, err := os.Open(opts.loadsPath)
	if err != nil {
		return fmt.Errorf("opening load list: %w", err)
	}
	loads, err := ingest.Parse(opts.loadsPath, f)
	f.Close()
	if err != nil {
		return err
	}
	logger.Info("loads read", zap.String("file", opts.loadsPath), zap.Int("count", len(loads)))

	res, err := sizing.Compute(loads, opts.cfg)
	if err != nil {
		return err
	}
	bom := sizing.BuildBOM(res, opts.cfg)
	summary := sizing.SummaryLines(res, opts.cfg)

	printSummary(stdout, summary, bom)

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var csvBuf bytes.Buffer
	if err := export.WriteBOMCSV(&csvBuf, bom); err != nil {
		return err
	}
	if err := writeOutput(opts.outDir, fileBOM, csvBuf.Bytes(), logger); err != nil {
		return err
	}

	wb, err := export.Workbook(loads, bom, summary)
	if err != nil {
		return err
	}
	if err := writeOutput(opts.outDir, fileWorkbook, wb, logger); err != nil {
		return err
	}

	img, ok, err := chart.Render(loads)
	if err != nil {
		return err
	}
	if ok {
		if err := writeOutput(opts.outDir, fileChart, img, logger); err != nil {
			return err
		}
	} else {
		logger.Info("no energy consumers, chart skipped")
	}

	pdf, err := report.Generate(report.Data{
		Title:   opts.title,
		Footer:  opts.footer,
		Summary: summary,
		Loads:   loads,
		BOM:     bom,
		Chart:   img,
	})
	if err != nil {
		return err
	}
	return writeOutput(opts.outDir, fileReport, pdf, logger)
}

func writeOutput(dir, name string, data []byte, logger *zap.Logger) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("wrote output", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

func printSummary(w io.Writer, summary []string, bom model.BillOfMaterials) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "System Summary")
	for _, line := range summary {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Bill of Materials")
	for _, line := range bom {
		fmt.Fprintf(w, "  %-36s full: %-12s critical: %-12s %s\n", line.Item, line.QtyFull, line.QtyCritical, line.Notes)
	}
	fmt.Fprintln(w)
}
