// Package report formats a sizing summary, load table, bill of materials and
// optional chart into a paginated PDF.
package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"solar_sizer/internal/model"
	"solar_sizer/internal/textsan"
)

// DefaultTitle is used when Data.Title is empty.
const DefaultTitle = "Solar System Sizing Report"

const (
	chartWidthMM = 140
	rowHeight    = 8
	noteLineH    = 5
	pageMargin   = 15
)

// Data is everything the report shows. Chart is an optional JPEG image.
type Data struct {
	Title   string
	Footer  string
	Summary []string
	Loads   []model.LoadItem
	BOM     model.BillOfMaterials
	Chart   []byte
}

type column struct {
	title string
	width float64
}

var loadColumns = []column{
	{"Appliance", 60}, {"Power (W)", 25}, {"Qty", 15}, {"Hours/day", 25}, {"Energy (Wh)", 30}, {"Critical", 25},
}

var bomColumns = []column{
	{"Item", 60}, {"Qty (Full)", 22}, {"Qty (Critical)", 28}, {"Notes", 70},
}

// Generate renders d as a PDF document. All text is reduced to ASCII first.
func Generate(d Data) ([]byte, error) {
	title := d.Title
	if title == "" {
		title = DefaultTitle
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(textsan.Sanitize(title), false)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AliasNbPages("")
	footer := textsan.Sanitize(d.Footer)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		text := fmt.Sprintf("Page %d/{nb}", pdf.PageNo())
		if footer != "" {
			text = footer + " | " + text
		}
		pdf.CellFormat(0, 10, text, "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, textsan.Sanitize(title), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	if len(d.Chart) > 0 {
		writeChart(pdf, d.Chart)
	}
	writeSummary(pdf, d.Summary)
	writeLoads(pdf, d.Loads)
	if len(d.BOM) > 0 {
		writeBOM(pdf, d.BOM)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
}

func writeChart(pdf *fpdf.Fpdf, img []byte) {
	heading(pdf, "Load Consumption Chart:")
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(img))
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions("chart", (pageW-chartWidthMM)/2, pdf.GetY(), chartWidthMM, 0, true, opts, 0, "")
	pdf.Ln(5)
}

func writeSummary(pdf *fpdf.Fpdf, lines []string) {
	heading(pdf, "System Summary:")
	pdf.SetFont("Arial", "", 12)
	for _, line := range lines {
		pdf.CellFormat(0, rowHeight, textsan.Sanitize(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

func tableHeader(pdf *fpdf.Fpdf, cols []column) {
	pdf.SetFont("Arial", "B", 11)
	for _, c := range cols {
		pdf.CellFormat(c.width, rowHeight, c.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
}

func writeLoads(pdf *fpdf.Fpdf, loads []model.LoadItem) {
	heading(pdf, "Appliance Load Summary:")
	tableHeader(pdf, loadColumns)
	for _, l := range loads {
		cells := []string{
			textsan.Sanitize(l.Name),
			strconv.FormatFloat(l.PowerW, 'f', 1, 64),
			strconv.Itoa(l.Qty),
			strconv.FormatFloat(l.HoursPerDay, 'f', 1, 64),
			strconv.FormatFloat(l.EnergyWh(), 'f', 0, 64),
			strconv.FormatBool(l.Critical),
		}
		for i, c := range loadColumns {
			pdf.CellFormat(c.width, rowHeight, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(5)
}

func writeBOM(pdf *fpdf.Fpdf, bom model.BillOfMaterials) {
	heading(pdf, "Recommended Bill of Materials:")
	tableHeader(pdf, bomColumns)

	notesW := bomColumns[3].width
	_, pageH := pdf.GetPageSize()
	for _, line := range bom {
		notes := textsan.Sanitize(line.Notes)
		wrapped := pdf.SplitLines([]byte(notes), notesW)
		n := max(len(wrapped), 1)
		h := max(rowHeight, float64(n)*noteLineH)

		// Keep a row on one page rather than letting cells split across pages.
		if pdf.GetY()+h > pageH-pageMargin {
			pdf.AddPage()
			tableHeader(pdf, bomColumns)
		}

		cells := []string{textsan.Sanitize(line.Item), textsan.Sanitize(line.QtyFull), textsan.Sanitize(line.QtyCritical)}
		for i, c := range bomColumns[:3] {
			pdf.CellFormat(c.width, h, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.MultiCell(notesW, h/float64(n), notes, "1", "L", false)
	}
}
