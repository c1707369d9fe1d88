package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/go-graphrag/pkg/ingest"
	"github.com/soundprediction/go-graphrag/pkg/server/dto"
)

// Ingestor is the slice of the ingestion collaborator the handler consumes.
type Ingestor interface {
	Run(ctx context.Context, csvPath string, force bool) (*ingest.Stats, error)
}

// IngestHandler serves document ingestion requests.
type IngestHandler struct {
	ingestor Ingestor
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(i Ingestor) *IngestHandler {
	return &IngestHandler{ingestor: i}
}

// Ingest handles POST /ingest.
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	stats, err := h.ingestor.Run(c.Request.Context(), req.Path, req.Force)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "ingestion_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
