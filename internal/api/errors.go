package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"solar_sizer/internal/ingest"
	"solar_sizer/internal/session"
	"solar_sizer/internal/sizing"
	"solar_sizer/internal/store"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sizing.ErrInvalidConfiguration),
		errors.Is(err, session.ErrLoadIndex),
		errors.Is(err, ingest.ErrInvalidFile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
