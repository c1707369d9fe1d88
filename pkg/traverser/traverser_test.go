package traverser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/soundprediction/go-graphrag/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver serves canned rows keyed by the lowercased entity parameter,
// mirroring the case-insensitive match the real query performs.
type fakeDriver struct {
	rows    map[string][]map[string]any
	err     error
	queries []string
}

func row(source, relType, target string) map[string]any {
	return map[string]any{"source": source, "rel_type": relType, "target": target}
}

func (f *fakeDriver) RunQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	entity, _ := params["entity"].(string)
	return f.rows[strings.ToLower(entity)], nil
}

func (f *fakeDriver) Ping(ctx context.Context) error { return f.err }

func (f *fakeDriver) UpsertEntityNode(ctx context.Context, id string) error { return nil }

func (f *fakeDriver) UpsertRelationship(ctx context.Context, source, relType, target string) error {
	return nil
}

func (f *fakeDriver) Close(ctx context.Context) error { return nil }

func TestQueryContainsDepthCeiling(t *testing.T) {
	tr := New(&fakeDriver{}, Options{MaxDepth: 3})

	query := tr.Query()
	assert.Contains(t, query, "[*1..3]")
	assert.Contains(t, query, "toLower(n.id) = toLower($entity)")
	assert.Contains(t, query, "ORDER BY source, rel_type, target")
}

func TestQueryDefaultsDepth(t *testing.T) {
	tr := New(&fakeDriver{}, Options{})
	assert.Contains(t, tr.Query(), "[*1..10]")
}

func TestTraverseReturnsSortedDedupedFacts(t *testing.T) {
	d := &fakeDriver{rows: map[string][]map[string]any{
		"gmail toolkit": {
			row("Gmail Toolkit", "TYPE_OF", "Email Software"),
			row("Agent", "USES", "Gmail Toolkit"),
			// Same edge surfaced by the incoming arm.
			row("Gmail Toolkit", "TYPE_OF", "Email Software"),
		},
	}}
	tr := New(d, Options{})

	result, err := tr.Traverse(context.Background(), "Gmail Toolkit")
	require.NoError(t, err)
	assert.Equal(t, "Gmail Toolkit", result.Entity)
	assert.Equal(t, []types.RelationshipFact{
		{Source: "Agent", Type: "USES", Target: "Gmail Toolkit"},
		{Source: "Gmail Toolkit", Type: "TYPE_OF", Target: "Email Software"},
	}, result.Facts)
}

func TestTraverseCaseInsensitiveEquivalence(t *testing.T) {
	d := &fakeDriver{rows: map[string][]map[string]any{
		"acme": {row("Acme", "MAKES", "Anvils")},
	}}
	tr := New(d, Options{})

	upper, err := tr.Traverse(context.Background(), "ACME")
	require.NoError(t, err)
	lower, err := tr.Traverse(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, upper.Facts, lower.Facts)
	assert.Len(t, upper.Facts, 1)
}

func TestTraverseUnknownEntityIsEmptyNotError(t *testing.T) {
	tr := New(&fakeDriver{}, Options{})

	result, err := tr.Traverse(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, result.Facts)
}

func TestTraverseStoreFailure(t *testing.T) {
	d := &fakeDriver{err: errors.New("connection refused")}
	tr := New(d, Options{})

	result, err := tr.Traverse(context.Background(), "Acme")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
	assert.Contains(t, err.Error(), "Acme")
	assert.Empty(t, result.Facts)
}

func TestTraverseDropsMalformedRows(t *testing.T) {
	d := &fakeDriver{rows: map[string][]map[string]any{
		"acme": {
			row("Acme", "MAKES", "Anvils"),
			{"source": "Acme", "rel_type": int64(7), "target": "Junk"},
			{"source": nil, "rel_type": "R", "target": "X"},
		},
	}}
	tr := New(d, Options{})

	result, err := tr.Traverse(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, []types.RelationshipFact{{Source: "Acme", Type: "MAKES", Target: "Anvils"}}, result.Facts)
}

func TestTraverseQueryTimeoutApplied(t *testing.T) {
	d := &fakeDriver{}
	tr := New(d, Options{QueryTimeout: 50 * time.Millisecond})

	_, err := tr.Traverse(context.Background(), "Acme")
	require.NoError(t, err)
	require.Len(t, d.queries, 1)
}
