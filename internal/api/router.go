package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solar_sizer/internal/session"
)

// Options wires the router to its collaborators.
type Options struct {
	Service      *session.Service
	WebSocket    http.Handler // optional, mounted at /ws
	ReportTitle  string
	ReportFooter string
	Logger       *zap.Logger
}

// NewRouter builds the HTTP API.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		service:      opts.Service,
		reportTitle:  opts.ReportTitle,
		reportFooter: opts.ReportFooter,
		logger:       logger,
	}

	router := gin.New()
	router.Use(Recovery(logger), RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.WebSocket != nil {
		router.GET("/ws", gin.WrapH(opts.WebSocket))
	}

	api := router.Group("/api")
	{
		api.POST("/sizing", h.Size)

		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:id", h.GetSession)
		api.DELETE("/sessions/:id", h.DeleteSession)
		api.PUT("/sessions/:id/config", h.SetConfig)

		api.POST("/sessions/:id/loads", h.AddLoad)
		api.PUT("/sessions/:id/loads", h.ReplaceLoads)
		api.PUT("/sessions/:id/loads/:index", h.UpdateLoad)
		api.DELETE("/sessions/:id/loads/:index", h.RemoveLoad)
		api.POST("/sessions/:id/loads/import", h.ImportLoads)

		api.GET("/sessions/:id/bom.csv", h.BOMCSV)
		api.GET("/sessions/:id/bom.xlsx", h.Workbook)
		api.GET("/sessions/:id/loads.csv", h.LoadsCSV)
		api.GET("/sessions/:id/report.pdf", h.Report)
		api.GET("/sessions/:id/chart.jpg", h.Chart)
	}

	return router
}
