package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/soundprediction/go-graphrag/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// transformLLM returns the same graph for every document and counts calls.
type transformLLM struct {
	mu     sync.Mutex
	calls  int
	err    error
	output string
}

func (t *transformLLM) Chat(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	return nil, errors.New("not used")
}

func (t *transformLLM) ChatWithStructuredOutput(ctx context.Context, messages []llm.Message, schema any) (json.RawMessage, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	if t.err != nil {
		return nil, t.err
	}
	return json.RawMessage(t.output), nil
}

func (t *transformLLM) Close() error { return nil }

// mapCache is an in-memory Cache for tests.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (m *mapCache) Set(key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapCache) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("key not found")
}

func (m *mapCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapCache) Close() error { return nil }

const toolkitGraph = `{
	"nodes": [{"id": "Gmail Toolkit"}, {"id": "Email Software"}],
	"relationships": [{"source": "Gmail Toolkit", "type": "TYPE_OF", "target": "Email Software"}]
}`

func TestConvertProducesGraphDocuments(t *testing.T) {
	client := &transformLLM{output: toolkitGraph}
	tr := NewTransformer(client, nil, 2, nil)

	docs := []Document{{ID: "d1", Content: "name: Gmail Toolkit", Row: 1}}
	out, err := tr.Convert(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "d1", out[0].DocumentID)
	assert.Equal(t, []GraphNode{{ID: "Gmail Toolkit"}, {ID: "Email Software"}}, out[0].Nodes)
	assert.Equal(t, []GraphRelationship{{Source: "Gmail Toolkit", Type: "TYPE_OF", Target: "Email Software"}}, out[0].Relationships)
}

func TestConvertCacheHitSkipsModel(t *testing.T) {
	client := &transformLLM{output: toolkitGraph}
	c := newMapCache()
	tr := NewTransformer(client, c, 2, nil)

	docs := []Document{{ID: "d1", Content: "name: Gmail Toolkit", Row: 1}}

	_, err := tr.Convert(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)

	// Second run over the same content reuses the cached conversion.
	out, err := tr.Convert(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	require.Len(t, out, 1)
	assert.Equal(t, []GraphNode{{ID: "Gmail Toolkit"}, {ID: "Email Software"}}, out[0].Nodes)
}

func TestConvertPreservesOrder(t *testing.T) {
	client := &transformLLM{output: `{"nodes": [], "relationships": []}`}
	tr := NewTransformer(client, nil, 4, nil)

	docs := make([]Document, 10)
	for i := range docs {
		docs[i] = Document{ID: string(rune('a' + i)), Content: "c", Row: i + 1}
	}

	out, err := tr.Convert(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, out, 10)
	for i, gd := range out {
		assert.Equal(t, docs[i].ID, gd.DocumentID)
	}
}

func TestConvertAllFailuresIsError(t *testing.T) {
	client := &transformLLM{err: errors.New("model unavailable")}
	tr := NewTransformer(client, nil, 2, nil)

	docs := []Document{{ID: "d1", Content: "c", Row: 1}, {ID: "d2", Content: "c2", Row: 2}}
	_, err := tr.Convert(context.Background(), docs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 documents failed")
}

func TestConvertEmptyInput(t *testing.T) {
	tr := NewTransformer(&transformLLM{}, nil, 2, nil)

	out, err := tr.Convert(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
