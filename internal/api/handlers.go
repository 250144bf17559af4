package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solar_sizer/internal/model"
	"solar_sizer/internal/session"
	"solar_sizer/internal/sizing"
)

// Handler serves the sizing and session endpoints.
type Handler struct {
	service      *session.Service
	reportTitle  string
	reportFooter string
	logger       *zap.Logger
}

// SizingRequest is the body of a stateless sizing call. Config fields that
// are left out keep their default values.
type SizingRequest struct {
	Loads  []model.RawLoad `json:"loads"`
	Config json.RawMessage `json:"config,omitempty"`
}

// SizingResponse is the outcome of a stateless sizing call.
type SizingResponse struct {
	Loads   []model.LoadItem      `json:"loads"`
	Config  model.SystemConfig    `json:"config"`
	Result  model.SizingResult    `json:"result"`
	BOM     model.BillOfMaterials `json:"bom"`
	Summary []string              `json:"summary"`
}

// CreateSessionRequest optionally overrides the default configuration.
type CreateSessionRequest struct {
	Config json.RawMessage `json:"config,omitempty"`
}

// Size computes a sizing without creating a session.
func (h *Handler) Size(c *gin.Context) {
	var req SizingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cfg, err := sizing.MergeConfig(h.service.Defaults(), req.Config)
	if err != nil {
		respondError(c, err)
		return
	}

	loads := sizing.NormalizeLoads(req.Loads)
	res, err := sizing.Compute(loads, cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SizingResponse{
		Loads:   loads,
		Config:  cfg,
		Result:  res,
		BOM:     sizing.BuildBOM(res, cfg),
		Summary: sizing.SummaryLines(res, cfg),
	})
}

func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}
	cfg, err := sizing.MergeConfig(h.service.Defaults(), req.Config)
	if err != nil {
		respondError(c, err)
		return
	}

	snap, err := h.service.Create(c.Request.Context(), &cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (h *Handler) GetSession(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetConfig merges the body over the session's current configuration.
func (h *Handler) SetConfig(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "invalid request body")
		return
	}
	snap, err := h.service.PatchConfig(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) AddLoad(c *gin.Context) {
	var raw model.RawLoad
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, "invalid load")
		return
	}
	snap, err := h.service.AddLoad(c.Request.Context(), c.Param("id"), sizing.NormalizeLoad(raw))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) ReplaceLoads(c *gin.Context) {
	var raw []model.RawLoad
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, "expected a list of loads")
		return
	}
	snap, err := h.service.ReplaceLoads(c.Request.Context(), c.Param("id"), sizing.NormalizeLoads(raw))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) UpdateLoad(c *gin.Context) {
	index, ok := loadIndex(c)
	if !ok {
		return
	}
	var raw model.RawLoad
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, "invalid load")
		return
	}
	snap, err := h.service.UpdateLoad(c.Request.Context(), c.Param("id"), index, sizing.NormalizeLoad(raw))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) RemoveLoad(c *gin.Context) {
	index, ok := loadIndex(c)
	if !ok {
		return
	}
	snap, err := h.service.RemoveLoad(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ImportLoads accepts a multipart "file" field holding a CSV or XLSX load
// list. ?replace=true swaps the list instead of appending.
func (h *Handler) ImportLoads(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "missing file")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, fmt.Errorf("opening upload: %w", err))
		return
	}
	defer f.Close()

	replace, _ := strconv.ParseBool(c.Query("replace"))
	snap, err := h.service.ImportLoads(c.Request.Context(), c.Param("id"), fh.Filename, f, replace)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func loadIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "load index must be an integer")
		return 0, false
	}
	return index, true
}
