package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/go-graphrag/pkg/server/dto"
	"github.com/soundprediction/go-graphrag/pkg/types"
)

// Traverser is the slice of the relationship traverser the graph handler
// consumes.
type Traverser interface {
	Traverse(ctx context.Context, entity string) (types.TraversalResult, error)
}

// GraphHandler serves graph-visualization data.
type GraphHandler struct {
	traverser Traverser
}

// NewGraphHandler creates a new graph handler.
func NewGraphHandler(t Traverser) *GraphHandler {
	return &GraphHandler{traverser: t}
}

// Graph handles GET /graph/:entity. It returns the entity's relationship
// neighborhood shaped for a visualization front end; an unknown entity
// yields an empty graph, not an error.
func (h *GraphHandler) Graph(c *gin.Context) {
	entity := c.Param("entity")
	if entity == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "entity parameter is required",
		})
		return
	}

	result, err := h.traverser.Traverse(c.Request.Context(), entity)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error:   "store_unavailable",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resultToGraph(result))
}

// resultToGraph indexes the distinct node ids in fact order and rewrites
// each fact as an edge between node indices.
func resultToGraph(result types.TraversalResult) dto.GraphResponse {
	resp := dto.GraphResponse{
		Entity:        result.Entity,
		Nodes:         []dto.GraphNode{},
		Relationships: []dto.GraphRelationship{},
	}

	indices := make(map[string]int)
	nodeIndex := func(id string) int {
		if idx, ok := indices[id]; ok {
			return idx
		}
		idx := len(resp.Nodes)
		indices[id] = idx
		resp.Nodes = append(resp.Nodes, dto.GraphNode{Index: idx, ID: id})
		return idx
	}

	for _, fact := range result.Facts {
		resp.Relationships = append(resp.Relationships, dto.GraphRelationship{
			Source:  nodeIndex(fact.Source),
			Target:  nodeIndex(fact.Target),
			Caption: fact.Type,
		})
	}

	return resp
}
