package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// statsReporter is implemented by backends that can count what they hold.
type statsReporter interface {
	GetStats() map[string]interface{}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"storage": "ok", "blobs": "ok"}

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("storage health check failed")
		checks["storage"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if err := h.blobs.CheckConnection(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("blob store health check failed")
		checks["blobs"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if reporter, ok := h.storage.(statsReporter); ok {
		checks["stats"] = reporter.GetStats()
	}

	checks["status"] = "ok"
	if status != http.StatusOK {
		checks["status"] = "degraded"
	}
	c.JSON(status, checks)
}
