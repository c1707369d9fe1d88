package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/go-graphrag/pkg/server/dto"
)

// Pinger reports graph store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health checks.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", Store: "ok"}
	status := http.StatusOK

	if h.store != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			resp.Status = "degraded"
			resp.Store = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, resp)
}
