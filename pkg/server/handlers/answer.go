package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/go-graphrag/pkg/server/dto"
	"github.com/soundprediction/go-graphrag/pkg/types"
)

// Pipeline is the slice of the question-answering pipeline the handlers
// consume.
type Pipeline interface {
	Answer(ctx context.Context, question string) (*types.Turn, error)
}

// AnswerHandler serves question answering requests.
type AnswerHandler struct {
	pipeline Pipeline
}

// NewAnswerHandler creates a new answer handler.
func NewAnswerHandler(p Pipeline) *AnswerHandler {
	return &AnswerHandler{pipeline: p}
}

// Answer handles POST /answer.
func (h *AnswerHandler) Answer(c *gin.Context) {
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	turn, err := h.pipeline.Answer(c.Request.Context(), req.Question)
	if err != nil {
		// A failed synthesis still carries usable context; everything else
		// failed before any answer material existed.
		status := http.StatusBadGateway
		if turn != nil && !turn.Context.Empty() {
			status = http.StatusOK
		} else if errors.Is(err, context.Canceled) {
			status = http.StatusRequestTimeout
		}
		if status != http.StatusOK {
			c.JSON(status, dto.ErrorResponse{
				Error:   "pipeline_failed",
				Message: err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, turnToResponse(turn))
}

func turnToResponse(turn *types.Turn) dto.AnswerResponse {
	entities := turn.Entities
	if entities == nil {
		entities = []string{}
	}
	return dto.AnswerResponse{
		TurnID:      turn.ID,
		Question:    turn.Question,
		Answer:      turn.Answer,
		Entities:    entities,
		Facts:       turn.Facts(),
		Truncated:   turn.Context.Truncated,
		Diagnostics: turn.Diagnostics,
	}
}
