package driver

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jDriver implements the GraphDriver interface for Neo4j databases.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:   driver,
		database: database,
	}, nil
}

// RunQuery executes a read query and returns rows as maps.
func (n *Neo4jDriver) RunQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		rows := make([]map[string]any, 0, len(records))
		for _, record := range records {
			rows = append(rows, record.AsMap())
		}
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j query failed: %w", err)
	}

	return result.([]map[string]any), nil
}

// Ping verifies connectivity to the database.
func (n *Neo4jDriver) Ping(ctx context.Context) error {
	return n.client.VerifyConnectivity(ctx)
}

// UpsertEntityNode creates an entity node if missing.
func (n *Neo4jDriver) UpsertEntityNode(ctx context.Context, id string) error {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `MERGE (n:Entity {id: $id})`
		_, err := tx.Run(ctx, query, map[string]any{"id": id})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert entity node %q: %w", id, err)
	}
	return nil
}

// relTypePattern restricts relationship types to what Cypher accepts as a
// literal; relationship types cannot be bound as query parameters.
var relTypePattern = regexp.MustCompile(`[^A-Z0-9_]`)

// SanitizeRelType normalizes a relationship type to UPPER_SNAKE_CASE and
// strips characters Cypher would reject.
func SanitizeRelType(relType string) string {
	upper := strings.ToUpper(strings.TrimSpace(relType))
	upper = strings.ReplaceAll(upper, " ", "_")
	upper = strings.ReplaceAll(upper, "-", "_")
	upper = relTypePattern.ReplaceAllString(upper, "")
	if upper == "" {
		upper = "RELATED_TO"
	}
	return upper
}

// UpsertRelationship creates a typed directed edge, creating endpoints when
// missing.
func (n *Neo4jDriver) UpsertRelationship(ctx context.Context, source, relType, target string) error {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	query := fmt.Sprintf(`
		MERGE (s:Entity {id: $source})
		MERGE (t:Entity {id: $target})
		MERGE (s)-[:%s]->(t)
	`, SanitizeRelType(relType))

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, map[string]any{
			"source": source,
			"target": target,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert relationship %s-[%s]->%s: %w", source, relType, target, err)
	}
	return nil
}

// Close releases the underlying driver.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}
