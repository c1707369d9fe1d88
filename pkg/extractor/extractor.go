// Package extractor turns a free-text question into the entity names likely
// to match knowledge graph nodes, using LLM structured output.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/soundprediction/go-graphrag/pkg/llm"
	"github.com/soundprediction/go-graphrag/pkg/prompts"
)

// ErrExtraction indicates the model call failed or its output could not be
// parsed into the entity schema after all retries.
var ErrExtraction = errors.New("entity extraction failed")

// DefaultRetries is the number of additional model calls attempted after a
// malformed response.
const DefaultRetries = 2

// entitySchema is the declared output shape for structured extraction:
// a single field holding a list of entity name strings.
type entitySchema struct {
	Names []string `json:"names"`
}

// Extractor extracts entity names from questions.
type Extractor struct {
	llm     llm.Client
	retries int
	logger  *slog.Logger
}

// Options configures an Extractor.
type Options struct {
	// Retries is the number of attempts after the first failure. Values < 1
	// fall back to DefaultRetries.
	Retries int
	// Logger receives extraction diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// New creates an Extractor over the given LLM client.
func New(client llm.Client, opts Options) *Extractor {
	retries := opts.Retries
	if retries < 1 {
		retries = DefaultRetries
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Extractor{
		llm:     client,
		retries: retries,
		logger:  logger,
	}
}

// Extract returns the entity names the model found in the question, in the
// order the model produced them. Names are the literal surface strings; no
// normalization is applied here. An empty list is a valid outcome, not an
// error.
func (e *Extractor) Extract(ctx context.Context, question string) ([]string, error) {
	if strings.TrimSpace(question) == "" {
		return []string{}, nil
	}

	messages := prompts.ExtractEntities(question)

	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		raw, err := e.llm.ChatWithStructuredOutput(ctx, messages, entitySchema{})
		if err != nil {
			lastErr = err
			e.logger.Warn("entity extraction call failed", "attempt", attempt+1, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		var parsed entitySchema
		if err := llm.UnmarshalStrict(raw, &parsed); err != nil {
			lastErr = fmt.Errorf("malformed extraction output: %w", err)
			e.logger.Warn("entity extraction returned malformed output", "attempt", attempt+1, "error", err)
			continue
		}

		names := make([]string, 0, len(parsed.Names))
		for _, name := range parsed.Names {
			if strings.TrimSpace(name) != "" {
				names = append(names, name)
			}
		}
		e.logger.Debug("extracted entities", "question", question, "entities", names)
		return names, nil
	}

	return []string{}, fmt.Errorf("%w: %v", ErrExtraction, lastErr)
}
