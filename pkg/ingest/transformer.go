package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/soundprediction/go-graphrag/pkg/cache"
	"github.com/soundprediction/go-graphrag/pkg/llm"
	"github.com/soundprediction/go-graphrag/pkg/prompts"
)

// GraphNode is one node produced by document conversion.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// GraphRelationship is one directed edge produced by document conversion.
type GraphRelationship struct {
	Source string `json:"source"`
	Type   string `json:"type"`
	Target string `json:"target"`
}

// GraphDocument is the structured graph form of one Document.
type GraphDocument struct {
	DocumentID    string              `json:"document_id"`
	Nodes         []GraphNode         `json:"nodes"`
	Relationships []GraphRelationship `json:"relationships"`
}

// graphSchema is the declared output shape for the conversion prompt.
type graphSchema struct {
	Nodes         []GraphNode         `json:"nodes"`
	Relationships []GraphRelationship `json:"relationships"`
}

// Transformer converts documents to graph documents with an LLM, caching
// conversions by content hash so reruns skip the model entirely.
type Transformer struct {
	llm     llm.Client
	cache   cache.Cache
	workers int
	logger  *slog.Logger
}

// NewTransformer creates a Transformer. A nil cache disables caching; a
// workers value < 1 falls back to 4.
func NewTransformer(client llm.Client, c cache.Cache, workers int, logger *slog.Logger) *Transformer {
	if workers < 1 {
		workers = 4
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Transformer{
		llm:     client,
		cache:   c,
		workers: workers,
		logger:  logger,
	}
}

// Convert transforms documents in parallel on a bounded worker pool,
// preserving input order. Documents that fail conversion are skipped and
// logged; an all-failure run returns the last error.
func (t *Transformer) Convert(ctx context.Context, docs []Document) ([]GraphDocument, error) {
	results := make([]*GraphDocument, len(docs))
	errs := make([]error, len(docs))

	sem := make(chan struct{}, t.workers)
	var wg sync.WaitGroup

	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc Document) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}

			gd, err := t.convertOne(ctx, doc)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = gd
		}(i, doc)
	}
	wg.Wait()

	out := make([]GraphDocument, 0, len(docs))
	var lastErr error
	for i := range docs {
		if errs[i] != nil {
			lastErr = errs[i]
			t.logger.Warn("document conversion failed", "row", docs[i].Row, "error", errs[i])
			continue
		}
		out = append(out, *results[i])
	}

	if len(out) == 0 && len(docs) > 0 {
		return nil, fmt.Errorf("all %d documents failed conversion: %w", len(docs), lastErr)
	}
	return out, nil
}

func (t *Transformer) convertOne(ctx context.Context, doc Document) (*GraphDocument, error) {
	key := cacheKey(doc.Content)

	if t.cache != nil {
		if data, err := t.cache.Get(key); err == nil {
			var cached GraphDocument
			if json.Unmarshal(data, &cached) == nil {
				t.logger.Debug("graph document cache hit", "row", doc.Row)
				return &cached, nil
			}
		}
	}

	raw, err := t.llm.ChatWithStructuredOutput(ctx, prompts.GraphTransform(doc.Content), graphSchema{})
	if err != nil {
		return nil, fmt.Errorf("graph transform call failed: %w", err)
	}

	var parsed graphSchema
	if err := llm.UnmarshalStrict(raw, &parsed); err != nil {
		return nil, fmt.Errorf("malformed graph transform output: %w", err)
	}

	gd := &GraphDocument{
		DocumentID:    doc.ID,
		Nodes:         parsed.Nodes,
		Relationships: parsed.Relationships,
	}

	if t.cache != nil {
		if data, err := json.Marshal(gd); err == nil {
			if err := t.cache.Set(key, data, 0); err != nil {
				t.logger.Warn("failed to cache graph document", "row", doc.Row, "error", err)
			}
		}
	}

	return gd, nil
}

func cacheKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "graphdoc:" + hex.EncodeToString(sum[:])
}
