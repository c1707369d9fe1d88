// Package ingest is the offline document-to-graph collaborator. It loads
// documents, converts them to graph elements with an LLM, and upserts the
// result into the graph store the query pipeline reads from.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/soundprediction/go-graphrag/pkg/driver"
)

// Stats summarizes one ingestion run.
type Stats struct {
	Documents     int `json:"documents"`
	Converted     int `json:"converted"`
	Nodes         int `json:"nodes"`
	Relationships int `json:"relationships"`
	Skipped       bool `json:"skipped"`
}

// Ingestor drives the load-convert-store sequence.
type Ingestor struct {
	driver      driver.GraphDriver
	transformer *Transformer
	logger      *slog.Logger
}

// NewIngestor creates an Ingestor. A nil logger disables logging.
func NewIngestor(d driver.GraphDriver, t *Transformer, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ingestor{
		driver:      d,
		transformer: t,
		logger:      logger,
	}
}

// Run ingests a CSV file into the graph. When the graph already holds entity
// nodes the run is skipped, matching the source system's populate-once
// behavior; pass force to ingest regardless.
func (i *Ingestor) Run(ctx context.Context, csvPath string, force bool) (*Stats, error) {
	if !force {
		populated, err := i.populated(ctx)
		if err != nil {
			return nil, err
		}
		if populated {
			i.logger.Info("graph already populated, skipping ingestion")
			return &Stats{Skipped: true}, nil
		}
	}

	docs, err := LoadCSV(csvPath)
	if err != nil {
		return nil, err
	}
	i.logger.Info("documents loaded", "path", csvPath, "documents", len(docs))

	graphDocs, err := i.transformer.Convert(ctx, docs)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Documents: len(docs), Converted: len(graphDocs)}
	for _, gd := range graphDocs {
		if err := i.store(ctx, gd, stats); err != nil {
			return stats, err
		}
	}

	i.logger.Info("ingestion complete",
		"documents", stats.Documents,
		"converted", stats.Converted,
		"nodes", stats.Nodes,
		"relationships", stats.Relationships)
	return stats, nil
}

func (i *Ingestor) store(ctx context.Context, gd GraphDocument, stats *Stats) error {
	for _, node := range gd.Nodes {
		if node.ID == "" {
			continue
		}
		if err := i.driver.UpsertEntityNode(ctx, node.ID); err != nil {
			return fmt.Errorf("storing node for document %s: %w", gd.DocumentID, err)
		}
		stats.Nodes++
	}

	for _, rel := range gd.Relationships {
		if rel.Source == "" || rel.Target == "" {
			continue
		}
		if err := i.driver.UpsertRelationship(ctx, rel.Source, rel.Type, rel.Target); err != nil {
			return fmt.Errorf("storing relationship for document %s: %w", gd.DocumentID, err)
		}
		stats.Relationships++
	}

	return nil
}

func (i *Ingestor) populated(ctx context.Context) (bool, error) {
	rows, err := i.driver.RunQuery(ctx, `MATCH (n:Entity) RETURN count(n) AS entity_count`, nil)
	if err != nil {
		return false, fmt.Errorf("checking existing graph data: %w", err)
	}
	if len(rows) == 0 {
		return false, nil
	}

	count, ok := rows[0]["entity_count"].(int64)
	return ok && count > 0, nil
}
