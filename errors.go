package graphrag

import (
	"github.com/soundprediction/go-graphrag/pkg/config"
	"github.com/soundprediction/go-graphrag/pkg/extractor"
	"github.com/soundprediction/go-graphrag/pkg/synthesizer"
	"github.com/soundprediction/go-graphrag/pkg/traverser"
)

// The pipeline error taxonomy, re-exported from the packages that raise
// them. Match with errors.Is.
var (
	// ErrExtraction: model call or parse failure during entity extraction.
	// Fatal to the Turn; no traversal is attempted.
	ErrExtraction = extractor.ErrExtraction

	// ErrStore: graph store unreachable or query timeout. Partial when some
	// entities still succeed, fatal only when every entity fails.
	ErrStore = traverser.ErrStore

	// ErrSynthesis: model call failure during answer generation. The
	// assembled context is still returned alongside a fallback answer.
	ErrSynthesis = synthesizer.ErrSynthesis

	// ErrConfiguration: missing or invalid credentials at startup.
	ErrConfiguration = config.ErrConfiguration
)
