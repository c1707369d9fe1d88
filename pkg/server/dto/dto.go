// Package dto defines the request and response shapes of the HTTP API.
package dto

import "github.com/soundprediction/go-graphrag/pkg/types"

// AnswerRequest is the body of POST /answer.
type AnswerRequest struct {
	Question string `json:"question" binding:"required"`
}

// AnswerResponse is the result of one Turn.
type AnswerResponse struct {
	TurnID      string                 `json:"turn_id"`
	Question    string                 `json:"question"`
	Answer      string                 `json:"answer"`
	Entities    []string               `json:"entities"`
	Facts       []string               `json:"facts"`
	Truncated   bool                   `json:"truncated"`
	Diagnostics []types.StepDiagnostic `json:"diagnostics"`
}

// GraphNode is one node in the visualization payload. Index is the node's
// position in the payload, referenced by relationships.
type GraphNode struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
}

// GraphRelationship is one edge in the visualization payload.
type GraphRelationship struct {
	Source  int    `json:"source"`
	Target  int    `json:"target"`
	Caption string `json:"caption"`
}

// GraphResponse is the body of GET /graph/:entity, shaped for a
// visualization front end.
type GraphResponse struct {
	Entity        string              `json:"entity"`
	Nodes         []GraphNode         `json:"nodes"`
	Relationships []GraphRelationship `json:"relationships"`
}

// IngestRequest is the body of POST /ingest.
type IngestRequest struct {
	Path  string `json:"path" binding:"required"`
	Force bool   `json:"force"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
