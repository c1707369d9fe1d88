// Package synthesizer generates the final natural-language answer from the
// question and the assembled fact context.
package synthesizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/soundprediction/go-graphrag/pkg/llm"
	"github.com/soundprediction/go-graphrag/pkg/prompts"
	"github.com/soundprediction/go-graphrag/pkg/types"
)

// ErrSynthesis indicates the model call failed during answer generation.
var ErrSynthesis = errors.New("answer synthesis failed")

// NoFactsAnswer is the deterministic answer returned when the graph holds
// nothing for the question. This is a graceful-degradation path, not an
// error; tests and callers distinguish it from store failures.
const NoFactsAnswer = "No information related to this question was found in the knowledge graph."

// Synthesizer produces answers grounded on assembled graph facts.
type Synthesizer struct {
	llm    llm.Client
	logger *slog.Logger
}

// New creates a Synthesizer over the given LLM client. A nil logger disables
// logging.
func New(client llm.Client, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Synthesizer{llm: client, logger: logger}
}

// Synthesize produces the answer for the question given the assembled
// context. An empty context yields NoFactsAnswer without a model call.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, assembled types.AssembledContext) (string, error) {
	if assembled.Empty() {
		s.logger.Debug("no graph facts found, answering with fallback", "question", question)
		return NoFactsAnswer, nil
	}

	messages := prompts.SynthesizeAnswer(question, assembled.Facts, assembled.Truncated)

	resp, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("%w: empty model response", ErrSynthesis)
	}

	return strings.TrimSpace(resp.Content), nil
}
