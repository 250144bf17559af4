package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"solar_sizer/internal/chart"
	"solar_sizer/internal/export"
	"solar_sizer/internal/report"
)

const (
	mimeCSV  = "text/csv; charset=utf-8"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
	mimeJPEG = "image/jpeg"
)

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) BOMCSV(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteBOMCSV(&buf, snap.BOM); err != nil {
		respondError(c, err)
		return
	}
	attachment(c, "bom.csv", mimeCSV, buf.Bytes())
}

func (h *Handler) LoadsCSV(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteLoadsCSV(&buf, snap.Loads); err != nil {
		respondError(c, err)
		return
	}
	attachment(c, "loads.csv", mimeCSV, buf.Bytes())
}

func (h *Handler) Workbook(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := export.Workbook(snap.Loads, snap.BOM, snap.Summary)
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, "sizing.xlsx", mimeXLSX, data)
}

// Chart answers 204 when no load consumes energy.
func (h *Handler) Chart(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	img, ok, err := chart.Render(snap.Loads)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, mimeJPEG, img)
}

func (h *Handler) Report(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	img, _, err := chart.Render(snap.Loads)
	if err != nil {
		respondError(c, err)
		return
	}
	pdf, err := report.Generate(report.Data{
		Title:   h.reportTitle,
		Footer:  h.reportFooter,
		Summary: snap.Summary,
		Loads:   snap.Loads,
		BOM:     snap.BOM,
		Chart:   img,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, "report.pdf", mimePDF, pdf)
}
