// Package driver provides graph database adapters for the retrieval pipeline.
package driver

import "context"

// GraphDriver is the thin adapter over a graph database. The query pipeline
// only reads; the write methods exist for the offline ingestion collaborator.
// Implementations must be safe for concurrent use by multiple Turns.
type GraphDriver interface {
	// RunQuery executes a read query with bound parameters and returns one
	// map per result row, keyed by the returned column names.
	RunQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)

	// Ping verifies connectivity to the graph store.
	Ping(ctx context.Context) error

	// UpsertEntityNode creates an entity node if it does not exist.
	UpsertEntityNode(ctx context.Context, id string) error

	// UpsertRelationship creates a typed directed edge between two entity
	// nodes, creating the endpoints when missing.
	UpsertRelationship(ctx context.Context, source, relType, target string) error

	// Close releases the connection.
	Close(ctx context.Context) error
}
