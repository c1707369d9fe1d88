// Package traverser collects relationship facts connected to one entity by
// expanding outgoing and incoming paths from every matching graph node.
package traverser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/go-graphrag/pkg/driver"
	"github.com/soundprediction/go-graphrag/pkg/types"
)

// ErrStore indicates the graph store was unreachable or the query failed.
// A missing entity is not a store error.
var ErrStore = errors.New("graph store error")

// DefaultMaxDepth bounds variable-length path expansion. The source system
// expanded paths without limit; a ceiling keeps one dense node from stalling
// a Turn.
const DefaultMaxDepth = 10

// Options configures a Traverser.
type Options struct {
	// MaxDepth is the path-length ceiling for expansion. Values < 1 fall
	// back to DefaultMaxDepth.
	MaxDepth int
	// QueryTimeout bounds each store round trip. Zero means no extra bound
	// beyond the caller's context.
	QueryTimeout time.Duration
	// Logger receives per-query diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// Traverser queries the graph store for the relationship facts of entities.
type Traverser struct {
	driver       driver.GraphDriver
	maxDepth     int
	queryTimeout time.Duration
	breaker      *gobreaker.CircuitBreaker
	logger       *slog.Logger
}

// New creates a Traverser over the given graph driver.
func New(d driver.GraphDriver, opts Options) *Traverser {
	maxDepth := opts.MaxDepth
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Traverser{
		driver:       d,
		maxDepth:     maxDepth,
		queryTimeout: opts.QueryTimeout,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "graph-store",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		logger: logger,
	}
}

// relationshipQuery matches nodes whose id equals the entity name
// case-insensitively, expands outgoing and incoming paths up to the depth
// ceiling, and returns each distinct edge once. When the name matches several
// nodes their results are unioned. ORDER BY keeps row order deterministic for
// a fixed graph.
const relationshipQuery = `
MATCH (n)
WHERE toLower(n.id) = toLower($entity)
MATCH pOut = (n)-[*1..%d]->(m)
UNWIND relationships(pOut) AS relOut
WITH DISTINCT relOut AS rel
RETURN startNode(rel).id AS source, type(rel) AS rel_type, endNode(rel).id AS target
UNION
MATCH (n)
WHERE toLower(n.id) = toLower($entity)
MATCH pIn = (m)-[*1..%d]->(n)
UNWIND relationships(pIn) AS relIn
WITH DISTINCT relIn AS rel
RETURN startNode(rel).id AS source, type(rel) AS rel_type, endNode(rel).id AS target
ORDER BY source, rel_type, target
`

// Query returns the Cypher used for relationship expansion.
func (t *Traverser) Query() string {
	return fmt.Sprintf(relationshipQuery, t.maxDepth, t.maxDepth)
}

// Traverse collects the deduplicated relationship facts reachable from every
// node matching the entity name. Zero matches yield an empty result, not an
// error.
func (t *Traverser) Traverse(ctx context.Context, entity string) (types.TraversalResult, error) {
	result := types.TraversalResult{Entity: entity}

	if t.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := t.runQuery(ctx, entity)
	if err != nil {
		t.logger.Warn("relationship query failed", "entity", entity, "error", err)
		return result, fmt.Errorf("traversing %q: %w: %v", entity, ErrStore, err)
	}

	result.Facts = factsFromRows(rows)
	t.logger.Debug("traversed entity",
		"entity", entity,
		"facts", len(result.Facts),
		"elapsed", time.Since(start))
	return result, nil
}

func (t *Traverser) runQuery(ctx context.Context, entity string) ([]map[string]any, error) {
	rows, err := t.breaker.Execute(func() (any, error) {
		return t.driver.RunQuery(ctx, t.Query(), map[string]any{"entity": entity})
	})
	if err != nil {
		return nil, err
	}
	return rows.([]map[string]any), nil
}

// factsFromRows converts query rows into facts, dropping malformed rows and
// duplicates. An edge can surface through both the outgoing and incoming arm
// when the matched node sits on a cycle.
func factsFromRows(rows []map[string]any) []types.RelationshipFact {
	seen := make(map[types.RelationshipFact]struct{}, len(rows))
	facts := make([]types.RelationshipFact, 0, len(rows))

	for _, row := range rows {
		source, ok1 := row["source"].(string)
		relType, ok2 := row["rel_type"].(string)
		target, ok3 := row["target"].(string)
		if !ok1 || !ok2 || !ok3 {
			continue
		}

		fact := types.RelationshipFact{Source: source, Type: relType, Target: target}
		if _, dup := seen[fact]; dup {
			continue
		}
		seen[fact] = struct{}{}
		facts = append(facts, fact)
	}

	// Driver row order is already deterministic; sorting makes the result
	// independent of which union arm produced an edge first.
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Source != facts[j].Source {
			return facts[i].Source < facts[j].Source
		}
		if facts[i].Type != facts[j].Type {
			return facts[i].Type < facts[j].Type
		}
		return facts[i].Target < facts[j].Target
	})
	return facts
}
