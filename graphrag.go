// Package graphrag answers natural-language questions by combining a
// knowledge graph with a language model: entities extracted from the
// question are traversed in the graph, and the collected relationship facts
// ground the synthesized answer.
package graphrag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/soundprediction/go-graphrag/pkg/assembler"
	"github.com/soundprediction/go-graphrag/pkg/driver"
	"github.com/soundprediction/go-graphrag/pkg/extractor"
	"github.com/soundprediction/go-graphrag/pkg/llm"
	"github.com/soundprediction/go-graphrag/pkg/synthesizer"
	"github.com/soundprediction/go-graphrag/pkg/traverser"
	"github.com/soundprediction/go-graphrag/pkg/types"
)

// SynthesisFallbackAnswer is returned as the answer when the facts were
// retrieved but prose generation failed. The assembled context still reaches
// the caller.
const SynthesisFallbackAnswer = "Graph facts were retrieved for this question, but answer generation failed. The raw facts are included in this response."

// Pipeline is the caller-facing interface: one operation per user turn.
type Pipeline interface {
	// Answer runs one question through extraction, traversal, assembly and
	// synthesis. The returned Turn always carries the diagnostics and any
	// assembled context, even when err is non-nil.
	Answer(ctx context.Context, question string) (*types.Turn, error)

	// Close releases the pipeline's clients.
	Close(ctx context.Context) error
}

// Config holds pipeline configuration.
type Config struct {
	// MaxDepth is the traversal path-length ceiling.
	MaxDepth int
	// MaxFacts caps the assembled context size.
	MaxFacts int
	// TraversalWorkers bounds concurrent per-entity traversal.
	TraversalWorkers int
	// ExtractRetries is the retry budget for malformed extraction output.
	ExtractRetries int
	// QueryTimeout bounds each graph store round trip.
	QueryTimeout time.Duration
	// Logger receives pipeline diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// DefaultTraversalWorkers bounds concurrent traversal when unconfigured.
const DefaultTraversalWorkers = 4

// Client is the main implementation of the Pipeline interface.
type Client struct {
	driver      driver.GraphDriver
	llm         llm.Client
	extractor   *extractor.Extractor
	traverser   *traverser.Traverser
	assembler   *assembler.Assembler
	synthesizer *synthesizer.Synthesizer
	workers     int
	logger      *slog.Logger
}

// NewClient wires the pipeline components over a graph driver and an LLM
// client. Both dependencies must be safe for concurrent use; the Client
// itself is, and holds no state across Turns.
func NewClient(d driver.GraphDriver, llmClient llm.Client, cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	workers := cfg.TraversalWorkers
	if workers < 1 {
		workers = DefaultTraversalWorkers
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		driver: d,
		llm:    llmClient,
		extractor: extractor.New(llmClient, extractor.Options{
			Retries: cfg.ExtractRetries,
			Logger:  logger,
		}),
		traverser: traverser.New(d, traverser.Options{
			MaxDepth:     cfg.MaxDepth,
			QueryTimeout: cfg.QueryTimeout,
			Logger:       logger,
		}),
		assembler:   assembler.New(cfg.MaxFacts),
		synthesizer: synthesizer.New(llmClient, logger),
		workers:     workers,
		logger:      logger,
	}
}

// Answer processes one user turn. The Turn's answer derives only from the
// context assembled within this call and the question itself.
func (c *Client) Answer(ctx context.Context, question string) (*types.Turn, error) {
	turn := types.NewTurn(question)

	// Extracting
	turn.State = types.TurnStateExtracting
	start := time.Now()
	entities, err := c.extractor.Extract(ctx, question)
	turn.Record(types.StepExtract, "", err, time.Since(start))
	if err != nil {
		turn.State = types.TurnStateFailed
		return turn, err
	}
	turn.Entities = dedupeEntities(entities)
	c.logger.Info("entities extracted", "turn", turn.ID, "entities", turn.Entities)

	// Traversing
	turn.State = types.TurnStateTraversing
	results, storeFailures := c.traverseAll(ctx, turn)
	if len(turn.Entities) > 0 && storeFailures == len(turn.Entities) {
		turn.State = types.TurnStateFailed
		return turn, fmt.Errorf("all %d entities failed: %w", storeFailures, ErrStore)
	}
	turn.Results = results

	// Assembling
	turn.State = types.TurnStateAssembling
	start = time.Now()
	turn.Context = c.assembler.Assemble(results)
	turn.Record(types.StepAssemble, "", nil, time.Since(start))
	c.logger.Info("context assembled",
		"turn", turn.ID,
		"facts", len(turn.Context.Facts),
		"truncated", turn.Context.Truncated)

	// Synthesizing
	turn.State = types.TurnStateSynthesizing
	start = time.Now()
	answer, err := c.synthesizer.Synthesize(ctx, question, turn.Context)
	turn.Record(types.StepSynthesize, "", err, time.Since(start))
	if err != nil {
		// The context is still useful to the caller (e.g. the graph
		// visualization), so the Turn carries it out with a fallback answer.
		turn.State = types.TurnStateFailed
		turn.Answer = SynthesisFallbackAnswer
		return turn, err
	}

	turn.Answer = answer
	turn.State = types.TurnStateDone
	return turn, nil
}

// traverseAll runs per-entity traversal on a bounded worker pool. Each
// entity's traversal is an independent read; failures are recorded as
// diagnostics and do not stop the others.
func (c *Client) traverseAll(ctx context.Context, turn *types.Turn) ([]types.TraversalResult, int) {
	entities := turn.Entities
	results := make([]types.TraversalResult, len(entities))
	errs := make([]error, len(entities))
	elapsed := make([]time.Duration, len(entities))

	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup

	for i, entity := range entities {
		wg.Add(1)
		go func(i int, entity string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = fmt.Errorf("%w: %v", ErrStore, ctx.Err())
				results[i] = types.TraversalResult{Entity: entity}
				return
			}

			start := time.Now()
			result, err := c.traverser.Traverse(ctx, entity)
			elapsed[i] = time.Since(start)
			results[i] = result
			errs[i] = err
		}(i, entity)
	}
	wg.Wait()

	// Diagnostics are recorded in extraction order, after the pool drains,
	// so the Turn log stays deterministic.
	failures := 0
	for i, entity := range entities {
		turn.Record(types.StepTraverse, entity, errs[i], elapsed[i])
		if errs[i] != nil {
			failures++
			c.logger.Warn("entity traversal skipped", "turn", turn.ID, "entity", entity, "error", errs[i])
		}
	}
	return results, failures
}

// Close releases the pipeline's clients.
func (c *Client) Close(ctx context.Context) error {
	if err := c.llm.Close(); err != nil {
		return err
	}
	return c.driver.Close(ctx)
}

// dedupeEntities drops case-insensitive duplicates while preserving the
// extraction order and the original surface strings. Traversal matches
// case-insensitively, so duplicates would only repeat queries.
func dedupeEntities(entities []string) []string {
	seen := make(map[string]struct{}, len(entities))
	out := make([]string, 0, len(entities))
	for _, entity := range entities {
		key := strings.ToLower(strings.TrimSpace(entity))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entity)
	}
	return out
}
